package domain

import "time"

type Initiative struct {
	ID          string
	MilestoneID string
	Title       string
	Description string
	Status      Status
	// AssigneeIDs is the set of users assigned to this initiative.
	// Assignment is non-owning; user rows live elsewhere.
	AssigneeIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasAssignee reports whether userID is among the assigned users.
func (i *Initiative) HasAssignee(userID string) bool {
	for _, id := range i.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
