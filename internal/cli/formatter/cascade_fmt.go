package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plantrack/internal/service"
)

// FormatCascadePreview renders what a cascade cancellation would touch.
func FormatCascadePreview(p *service.CascadePreview) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s  %s\n\n", StyleBold.Render("Cancel"), StyleBold.Render(p.RootTitle), StatusPill(p.RootStatus)))
	if p.IsAlreadyCancelled {
		b.WriteString(StyleDim.Render("Already cancelled; nothing to do."))
		return RenderBox("Cascade preview", b.String())
	}

	b.WriteString(fmt.Sprintf("%s %d milestones, %d initiatives\n",
		StyleRed.Render("Will cancel:"), p.MilestonesCount, p.InitiativesCount))
	for _, name := range p.MilestoneNames {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim("▸"), StyleFg.Render(name)))
	}
	for _, name := range p.InitiativeNames {
		b.WriteString(fmt.Sprintf("    %s %s\n", Dim("·"), Dim(name)))
	}

	return RenderBox("Cascade preview", strings.TrimRight(b.String(), "\n"))
}

// FormatCascadeSummary renders the result of a committed cascade.
func FormatCascadeSummary(s *service.CascadeSummary) string {
	return fmt.Sprintf("%s %s: %d milestones and %d initiatives cancelled, %d users notified",
		StyleRed.Render("Cancelled"), Bold(s.RootTitle),
		s.MilestonesAffected, s.InitiativesAffected, s.UsersNotified)
}
