package domain

import "time"

type Notification struct {
	ID         string
	UserID     string
	Type       string
	Message    string
	EntityType *EntityType
	EntityID   *string
	Status     NotificationStatus
	CreatedAt  time.Time
}
