package domain

// Status is the shared lifecycle state for plans, milestones and initiatives.
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[string]bool{
	"PLANNED": true, "IN_PROGRESS": true, "COMPLETED": true, "CANCELLED": true,
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

// CanTransitionTo reports whether a direct transition from s to next is
// allowed. PLANNED, IN_PROGRESS and COMPLETED are freely reversible; any
// state may move to CANCELLED once; CANCELLED never leaves.
func (s Status) CanTransitionTo(next Status) bool {
	if s == StatusCancelled {
		return false
	}
	return ValidStatuses[string(next)]
}

type EntityType string

const (
	EntityPlan       EntityType = "PLAN"
	EntityMilestone  EntityType = "MILESTONE"
	EntityInitiative EntityType = "INITIATIVE"
)

type AuditAction string

const (
	ActionCreate       AuditAction = "CREATE"
	ActionUpdate       AuditAction = "UPDATE"
	ActionDelete       AuditAction = "DELETE"
	ActionUpdateStatus AuditAction = "UPDATE_STATUS"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// NotificationType tags are free-form in storage; these are the values the
// lifecycle engine emits.
const (
	NotifyInfo         = "INFO"
	NotifyWarning      = "WARNING"
	NotifyAssignment   = "ASSIGNMENT"
	NotifyStatusUpdate = "STATUS_UPDATE"
)
