package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plantrack/internal/domain"
)

// PlanInspectData holds all data needed to render a plan inspect view.
type PlanInspectData struct {
	Plan        *domain.Plan
	Owner       *domain.User
	Milestones  []*domain.Milestone
	Initiatives map[string][]*domain.Initiative // milestoneID -> initiatives
	UserNames   map[string]string               // userID -> display name
}

// FormatPlanList renders a styled plan list inside a bordered box.
func FormatPlanList(plans []*domain.Plan, ownerNames map[string]string) string {
	headers := []string{"ID", "TITLE", "PRIORITY", "STATUS", "OWNER", "START"}
	rows := make([][]string, 0, len(plans))

	for _, p := range plans {
		owner := ownerNames[p.OwnerID]
		if owner == "" {
			owner = TruncID(p.OwnerID)
		}
		rows = append(rows, []string{
			Dim(TruncID(p.ID)),
			Bold(p.Title),
			PriorityBadge(p.Priority),
			StatusPill(p.Status),
			StyleFg.Render(owner),
			Dim(HumanDate(p.StartDate)),
		})
	}

	return RenderBox("Plans", RenderTable(headers, rows))
}

// FormatPlanInspect renders the plan's metadata followed by its milestone and
// initiative tree.
func FormatPlanInspect(data PlanInspectData) string {
	var b strings.Builder
	p := data.Plan

	b.WriteString(StyleBold.Render(p.Title) + "  " + PriorityBadge(p.Priority) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), Dim(TruncID(p.ID))))
	if data.Owner != nil {
		b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("OWNER "), StyleFg.Render(data.Owner.Name), RoleBadge(data.Owner.Role)))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("START "), StyleFg.Render(HumanDate(p.StartDate))))
	if p.EndDate != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("END   "), StyleFg.Render(HumanDate(*p.EndDate))))
	}

	if len(data.Milestones) > 0 {
		b.WriteString("\n" + Header("Milestones") + "\n")
		b.WriteString(renderMilestoneTree(data.Milestones, data.Initiatives, data.UserNames))
	}

	return RenderBox("", b.String())
}

// renderMilestoneTree renders milestones with their initiatives as an
// indented tree with box-drawing connectors.
func renderMilestoneTree(milestones []*domain.Milestone, initiatives map[string][]*domain.Initiative, userNames map[string]string) string {
	var b strings.Builder
	for mi, m := range milestones {
		mConn := "├─"
		if mi == len(milestones)-1 {
			mConn = "└─"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			Dim(mConn), Bold(m.Title), RenderProgress(m.CompletionPercent, 10), StatusPill(m.Status)))

		children := initiatives[m.ID]
		indent := "│  "
		if mi == len(milestones)-1 {
			indent = "   "
		}
		for ii, i := range children {
			iConn := "├─"
			if ii == len(children)-1 {
				iConn = "└─"
			}
			b.WriteString(fmt.Sprintf("%s%s %s  %s  %s\n",
				Dim(indent), Dim(iConn), StyleFg.Render(i.Title), StatusPill(i.Status),
				Dim(assigneeSummary(i.AssigneeIDs, userNames))))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func assigneeSummary(ids []string, userNames map[string]string) string {
	if len(ids) == 0 {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := userNames[id]; n != "" {
			names = append(names, n)
		} else {
			names = append(names, TruncID(id))
		}
	}
	return "@" + strings.Join(names, ", @")
}
