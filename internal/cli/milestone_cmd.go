package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/service"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestones",
	}

	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneListCmd(app),
		newMilestoneUpdateCmd(app),
		newMilestoneProgressCmd(app),
		newMilestoneCancelCmd(app),
		newMilestoneRemoveCmd(app),
	)

	return cmd
}

func resolveMilestoneID(ctx context.Context, app *App, planInput, input string) (string, error) {
	planID, err := resolvePlanID(ctx, app, planInput)
	if err != nil {
		return "", err
	}
	milestones, err := app.Milestones.ListByPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(milestones))
	for _, m := range milestones {
		ids = append(ids, m.ID)
	}
	return resolveID(ids, input, "milestone")
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var plan, title, due, actor string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a milestone in a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			planID, err := resolvePlanID(ctx, app, plan)
			if err != nil {
				return err
			}

			m := &domain.Milestone{PlanID: planID, Title: title}
			if due != "" {
				dueDate, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				m.DueDate = &dueDate
			}

			if err := app.Milestones.Create(ctx, principal, m); err != nil {
				return err
			}
			fmt.Printf("Created milestone %s [%s]\n", m.Title, formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a plan's milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, plan)
			if err != nil {
				return err
			}
			p, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}
			milestones, err := app.Milestones.ListByPlan(ctx, planID)
			if err != nil {
				return err
			}
			if len(milestones) == 0 {
				fmt.Println("No milestones found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatMilestoneList(p.Title, milestones))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newMilestoneUpdateCmd(app *App) *cobra.Command {
	var plan, title, status, due, actor string

	cmd := &cobra.Command{
		Use:   "update <milestone-id>",
		Short: "Update a milestone's fields or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			milestoneID, err := resolveMilestoneID(ctx, app, plan, args[0])
			if err != nil {
				return err
			}

			m, err := app.Milestones.GetByID(ctx, milestoneID)
			if err != nil {
				return err
			}
			if title != "" {
				m.Title = title
			}
			if status != "" {
				if !domain.ValidStatuses[status] {
					return fmt.Errorf("invalid status %q", status)
				}
				m.Status = domain.Status(status)
			}
			if due != "" {
				dueDate, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				m.DueDate = &dueDate
			}

			if err := app.Milestones.Update(ctx, principal, m); err != nil {
				return err
			}
			fmt.Printf("Updated milestone %s\n", m.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&status, "status", "", "New status (PLANNED|IN_PROGRESS|COMPLETED|CANCELLED)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newMilestoneProgressCmd(app *App) *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "progress <milestone-id>",
		Short: "Recompute a milestone's completion from its initiatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			milestoneID, err := resolveMilestoneID(ctx, app, plan, args[0])
			if err != nil {
				return err
			}

			result, err := app.Progress.Recompute(ctx, milestoneID)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", formatter.RenderProgress(result.CompletionPercent, 20), formatter.StatusPill(result.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newMilestoneCancelCmd(app *App) *cobra.Command {
	var plan, actor string
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <milestone-id>",
		Short: "Cancel a milestone and its initiatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			milestoneID, err := resolveMilestoneID(ctx, app, plan, args[0])
			if err != nil {
				return err
			}
			return runCascadeCancel(ctx, app, principal, milestoneID, service.RootMilestone, yes)
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	var plan, actor string

	cmd := &cobra.Command{
		Use:   "remove <milestone-id>",
		Short: "Delete a milestone and its initiatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			milestoneID, err := resolveMilestoneID(ctx, app, plan, args[0])
			if err != nil {
				return err
			}
			if err := app.Milestones.Delete(ctx, principal, milestoneID); err != nil {
				return err
			}
			fmt.Printf("Deleted milestone %s\n", formatter.TruncID(milestoneID))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}
