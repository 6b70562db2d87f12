package domain

import (
	"fmt"
	"time"
)

type Plan struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	OwnerID     string
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required at creation time.
func (p *Plan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("plan title is required")
	}
	if p.OwnerID == "" {
		return fmt.Errorf("plan owner is required")
	}
	if p.Priority != "" && p.Priority != PriorityLow && p.Priority != PriorityMedium && p.Priority != PriorityHigh {
		return fmt.Errorf("invalid priority %q", p.Priority)
	}
	return nil
}
