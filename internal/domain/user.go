package domain

import "time"

type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
}

// Principal is the already-authenticated identity supplied to every mutating
// operation, used for audit attribution and authorization.
type Principal struct {
	UserID string
	Name   string
	Role   Role
}

// SystemPrincipal attributes mutations performed outside a user context.
var SystemPrincipal = Principal{UserID: "", Name: "SYSTEM", Role: RoleAdmin}

// AuditName returns the identifier recorded in the audit trail.
func (p Principal) AuditName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.UserID != "" {
		return p.UserID
	}
	return "SYSTEM"
}
