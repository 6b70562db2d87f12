package service

import "github.com/alexanderramin/plantrack/internal/domain"

// Capability is a coarse permission evaluated once at the top of each
// mutating operation, before any business logic runs.
type Capability int

const (
	CapRead Capability = iota
	CapEditStatusOnly
	CapEditAllFields
)

// PolicyFor maps a principal's role onto its edit capability. Admins and
// managers edit every field; employees may only flip status, and only on
// initiatives they are assigned to (the assignment check lives with the
// initiative service, which has the row in hand).
func PolicyFor(role domain.Role) Capability {
	switch role {
	case domain.RoleAdmin, domain.RoleManager:
		return CapEditAllFields
	case domain.RoleEmployee:
		return CapEditStatusOnly
	default:
		return CapRead
	}
}
