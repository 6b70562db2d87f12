package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plantrack/internal/domain"
)

// FormatNotificationList renders notifications newest-first.
func FormatNotificationList(notifications []*domain.Notification) string {
	var b strings.Builder
	for _, n := range notifications {
		b.WriteString(FormatNotificationLine(n) + "\n")
	}
	return RenderBox("Notifications", strings.TrimRight(b.String(), "\n"))
}

// FormatNotificationLine renders a single notification as one line.
func FormatNotificationLine(n *domain.Notification) string {
	marker := StyleDim.Render("·")
	if n.Status == domain.NotificationUnread {
		marker = StyleYellow.Render("●")
	}
	line := fmt.Sprintf("%s %s %s  %s",
		marker, typeBadge(n.Type), StyleFg.Render(n.Message), Dim(HumanTimestamp(n.CreatedAt)))
	if n.EntityType != nil && n.EntityID != nil {
		line += "  " + Dim(fmt.Sprintf("[%s %s]", *n.EntityType, TruncID(*n.EntityID)))
	}
	return line
}

func typeBadge(t string) string {
	switch t {
	case domain.NotifyWarning:
		return StyleRed.Render("[WARN]")
	case domain.NotifyAssignment:
		return StyleBlue.Render("[ASSIGN]")
	case domain.NotifyStatusUpdate:
		return StyleYellow.Render("[STATUS]")
	default:
		return StyleDim.Render("[INFO]")
	}
}
