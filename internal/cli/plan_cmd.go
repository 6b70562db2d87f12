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

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanListCmd(app),
		newPlanInspectCmd(app),
		newPlanUpdateCmd(app),
		newPlanCancelCmd(app),
		newPlanRemoveCmd(app),
		newPlanImportCmd(app),
	)

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var title, description, priority, owner, start, end, actor string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			ownerID, err := resolveUserID(ctx, app, owner)
			if err != nil {
				return err
			}

			p := &domain.Plan{
				Title:       title,
				Description: description,
				Priority:    domain.Priority(priority),
				OwnerID:     ownerID,
			}
			if start != "" {
				startDate, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				p.StartDate = startDate
			} else {
				p.StartDate = time.Now().UTC()
			}
			if end != "" {
				endDate, err := time.Parse("2006-01-02", end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				p.EndDate = &endDate
			}

			if err := app.Plans.Create(ctx, principal, p); err != nil {
				return err
			}
			fmt.Printf("Created plan %s [%s]\n", p.Title, formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Plan title")
	cmd.Flags().StringVar(&description, "desc", "", "Plan description")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "Priority (LOW|MEDIUM|HIGH)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owning user (ID or name)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var plans []*domain.Plan
			var err error
			if owner != "" {
				ownerID, rerr := resolveUserID(ctx, app, owner)
				if rerr != nil {
					return rerr
				}
				plans, err = app.Plans.ListByOwner(ctx, ownerID)
			} else {
				plans, err = app.Plans.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println("No plans found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatPlanList(plans, userNames(ctx, app)))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only plans owned by this user")
	return cmd
}

func newPlanInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <plan-id>",
		Short: "Show a plan with its milestones and initiatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			plan, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}
			milestones, err := app.Milestones.ListByPlan(ctx, planID)
			if err != nil {
				return err
			}
			initiatives := make(map[string][]*domain.Initiative, len(milestones))
			for _, m := range milestones {
				list, err := app.Initiatives.ListByMilestone(ctx, m.ID)
				if err != nil {
					return err
				}
				initiatives[m.ID] = list
			}
			owner, err := app.Users.GetByID(ctx, plan.OwnerID)
			if err != nil {
				owner = nil
			}

			fmt.Printf("%s\n", formatter.FormatPlanInspect(formatter.PlanInspectData{
				Plan:        plan,
				Owner:       owner,
				Milestones:  milestones,
				Initiatives: initiatives,
				UserNames:   userNames(ctx, app),
			}))
			return nil
		},
	}
}

func newPlanUpdateCmd(app *App) *cobra.Command {
	var title, description, priority, status, end, actor string

	cmd := &cobra.Command{
		Use:   "update <plan-id>",
		Short: "Update a plan's fields or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			p, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}
			if title != "" {
				p.Title = title
			}
			if description != "" {
				p.Description = description
			}
			if priority != "" {
				p.Priority = domain.Priority(priority)
			}
			if status != "" {
				if !domain.ValidStatuses[status] {
					return fmt.Errorf("invalid status %q", status)
				}
				p.Status = domain.Status(status)
			}
			if end != "" {
				endDate, err := time.Parse("2006-01-02", end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				p.EndDate = &endDate
			}

			if err := app.Plans.Update(ctx, principal, p); err != nil {
				return err
			}
			fmt.Printf("Updated plan %s\n", p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (LOW|MEDIUM|HIGH)")
	cmd.Flags().StringVar(&status, "status", "", "New status (PLANNED|IN_PROGRESS|COMPLETED|CANCELLED)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	addActorFlag(cmd.Flags(), &actor)

	return cmd
}

func newPlanCancelCmd(app *App) *cobra.Command {
	var actor string
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <plan-id>",
		Short: "Cancel a plan and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return runCascadeCancel(ctx, app, principal, planID, service.RootPlan, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	addActorFlag(cmd.Flags(), &actor)
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "remove <plan-id>",
		Short: "Delete a plan and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(ctx, principal, planID); err != nil {
				return err
			}
			fmt.Printf("Deleted plan %s\n", formatter.TruncID(planID))
			return nil
		},
	}

	addActorFlag(cmd.Flags(), &actor)
	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a whole plan hierarchy from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}

			result, err := app.Import.ImportPlan(ctx, principal, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported plan %s [%s]: %d milestones, %d initiatives\n",
				result.Plan.Title, formatter.TruncID(result.Plan.ID),
				result.MilestoneCount, result.InitiativeCount)
			return nil
		},
	}

	addActorFlag(cmd.Flags(), &actor)
	return cmd
}

// userNames builds a userID to display name map for formatters. Lookup
// failures degrade to showing IDs.
func userNames(ctx context.Context, app *App) map[string]string {
	names := make(map[string]string)
	users, err := app.Users.List(ctx, false)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}
