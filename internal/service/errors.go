package service

import "errors"

var (
	// ErrAlreadyCancelled guards cascade idempotence: cancelling a root whose
	// status is already CANCELLED is rejected without touching any row.
	ErrAlreadyCancelled = errors.New("already cancelled")

	// ErrInvalidTransition is returned for attempts to leave the terminal
	// CANCELLED state, or to cancel an unsupported root kind.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoAssignees is returned when an initiative would end up without any
	// assigned user.
	ErrNoAssignees = errors.New("at least one assignee is required")

	// ErrInactiveAssignee is returned when an assignment references a user
	// that is not ACTIVE.
	ErrInactiveAssignee = errors.New("user is not active")

	// ErrForbidden is returned when the acting principal's capabilities do
	// not cover the attempted mutation.
	ErrForbidden = errors.New("operation not permitted")
)
