package formatter

import (
	"github.com/alexanderramin/plantrack/internal/domain"
)

// FormatMilestoneList renders the milestones of one plan as a table.
func FormatMilestoneList(planTitle string, milestones []*domain.Milestone) string {
	headers := []string{"ID", "TITLE", "PROGRESS", "STATUS", "DUE"}
	rows := make([][]string, 0, len(milestones))

	for _, m := range milestones {
		due := Dim("--")
		if m.DueDate != nil {
			due = StyleFg.Render(HumanDate(*m.DueDate))
		}
		rows = append(rows, []string{
			Dim(TruncID(m.ID)),
			Bold(m.Title),
			RenderProgress(m.CompletionPercent, 12),
			StatusPill(m.Status),
			due,
		})
	}

	return RenderBox("Milestones: "+planTitle, RenderTable(headers, rows))
}
