package formatter

import (
	"fmt"

	"github.com/alexanderramin/plantrack/internal/domain"
)

// FormatAuditList renders audit entries newest-first as a table.
func FormatAuditList(entries []*domain.AuditLogEntry) string {
	headers := []string{"WHEN", "ACTOR", "ACTION", "ENTITY", "DETAILS"}
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		rows = append(rows, []string{
			Dim(HumanTimestamp(e.Timestamp)),
			StyleFg.Render(e.PerformedBy),
			actionBadge(e.Action),
			Dim(fmt.Sprintf("%s %s", e.EntityType, TruncID(e.EntityID))),
			StyleFg.Render(auditDetails(e)),
		})
	}

	return RenderBox("Audit log", RenderTable(headers, rows))
}

func actionBadge(a domain.AuditAction) string {
	switch a {
	case domain.ActionCreate:
		return StyleGreen.Render("CREATE")
	case domain.ActionUpdate:
		return StyleBlue.Render("UPDATE")
	case domain.ActionUpdateStatus:
		return StyleYellow.Render("STATUS")
	case domain.ActionDelete:
		return StyleRed.Render("DELETE")
	default:
		return StyleDim.Render(string(a))
	}
}

func auditDetails(e *domain.AuditLogEntry) string {
	if e.OldValue != nil && e.NewValue != nil {
		return fmt.Sprintf("%s  %s", e.Details, Dim(*e.OldValue+" → "+*e.NewValue))
	}
	return e.Details
}
