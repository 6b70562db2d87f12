package domain

import "time"

type Milestone struct {
	ID                string
	PlanID            string
	Title             string
	DueDate           *time.Time
	CompletionPercent float64
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DeriveMilestoneStatus maps a completion percentage onto the derived status:
// COMPLETED at 100, PLANNED at 0, IN_PROGRESS in between. Callers must not
// apply it to a CANCELLED milestone; cancellation freezes both fields.
func DeriveMilestoneStatus(percent float64) Status {
	switch {
	case percent >= 100:
		return StatusCompleted
	case percent > 0:
		return StatusInProgress
	default:
		return StatusPlanned
	}
}

// CompletionPercent computes 100*completed/total, or 0 for an empty set.
func CompletionPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
