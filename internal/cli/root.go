package cli

import (
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/alexanderramin/plantrack/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans         service.PlanService
	Milestones    service.MilestoneService
	Initiatives   service.InitiativeService
	Progress      service.ProgressService
	Cascade       service.CascadeService
	Notifications service.NotificationService
	Audit         service.AuditService
	Import        service.ImportService
	Users         repository.UserRepo

	// IsInteractive reports whether stdin is a terminal; destructive commands
	// only prompt for confirmation when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "plantrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "plantrack",
		Short: "Plan, milestone and initiative tracker",
	}

	root.AddCommand(
		newPlanCmd(app),
		newMilestoneCmd(app),
		newInitiativeCmd(app),
		newUserCmd(app),
		newAuditCmd(app),
		newNotificationCmd(app),
	)

	return root
}
