package formatter

import (
	"github.com/alexanderramin/plantrack/internal/domain"
)

// FormatInitiativeList renders initiatives as a table with their assignees.
func FormatInitiativeList(title string, initiatives []*domain.Initiative, userNames map[string]string) string {
	headers := []string{"ID", "TITLE", "STATUS", "ASSIGNEES"}
	rows := make([][]string, 0, len(initiatives))

	for _, i := range initiatives {
		rows = append(rows, []string{
			Dim(TruncID(i.ID)),
			Bold(i.Title),
			StatusPill(i.Status),
			StyleFg.Render(assigneeSummary(i.AssigneeIDs, userNames)),
		})
	}

	return RenderBox(title, RenderTable(headers, rows))
}
