package domain

import "time"

// AuditLogEntry is one immutable record of a state change. Entries are only
// ever appended; nothing in the system updates or deletes them.
type AuditLogEntry struct {
	ID          string
	Action      AuditAction
	PerformedBy string
	EntityType  EntityType
	EntityID    string
	Details     string
	OldValue    *string
	NewValue    *string
	Timestamp   time.Time
}
