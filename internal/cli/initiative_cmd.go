package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/spf13/cobra"
)

func newInitiativeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initiative",
		Short: "Manage initiatives",
	}

	cmd.AddCommand(
		newInitiativeAddCmd(app),
		newInitiativeListCmd(app),
		newInitiativeUpdateCmd(app),
		newInitiativeAssignCmd(app),
	)

	return cmd
}

func resolveInitiativeID(ctx context.Context, app *App, planInput, milestoneInput, input string) (string, error) {
	milestoneID, err := resolveMilestoneID(ctx, app, planInput, milestoneInput)
	if err != nil {
		return "", err
	}
	initiatives, err := app.Initiatives.ListByMilestone(ctx, milestoneID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(initiatives))
	for _, i := range initiatives {
		ids = append(ids, i.ID)
	}
	return resolveID(ids, input, "initiative")
}

func resolveAssignees(ctx context.Context, app *App, inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveUserID(ctx, app, in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newInitiativeAddCmd(app *App) *cobra.Command {
	var plan, milestone, title, description, actor string
	var assignees []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an initiative in a milestone",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			milestoneID, err := resolveMilestoneID(ctx, app, plan, milestone)
			if err != nil {
				return err
			}
			assigneeIDs, err := resolveAssignees(ctx, app, assignees)
			if err != nil {
				return err
			}

			i := &domain.Initiative{
				MilestoneID: milestoneID,
				Title:       title,
				Description: description,
				AssigneeIDs: assigneeIDs,
			}
			if err := app.Initiatives.Create(ctx, principal, i); err != nil {
				return err
			}
			fmt.Printf("Created initiative %s [%s]\n", i.Title, formatter.TruncID(i.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Parent milestone (ID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "Initiative title")
	cmd.Flags().StringVar(&description, "desc", "", "Initiative description")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "Assignees (user IDs or names, repeatable)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("milestone")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("assign")

	return cmd
}

func newInitiativeListCmd(app *App) *cobra.Command {
	var plan, milestone, assignee string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List initiatives by milestone or assignee",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var initiatives []*domain.Initiative
			var title string
			switch {
			case assignee != "":
				userID, err := resolveUserID(ctx, app, assignee)
				if err != nil {
					return err
				}
				initiatives, err = app.Initiatives.ListByAssignee(ctx, userID)
				if err != nil {
					return err
				}
				title = "Initiatives assigned to " + assignee
			case milestone != "":
				milestoneID, err := resolveMilestoneID(ctx, app, plan, milestone)
				if err != nil {
					return err
				}
				initiatives, err = app.Initiatives.ListByMilestone(ctx, milestoneID)
				if err != nil {
					return err
				}
				title = "Initiatives"
			default:
				return fmt.Errorf("either --milestone (with --plan) or --assignee is required")
			}

			if len(initiatives) == 0 {
				fmt.Println("No initiatives found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatInitiativeList(title, initiatives, userNames(ctx, app)))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Parent milestone (ID or prefix)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "List by assigned user instead")
	return cmd
}

func newInitiativeUpdateCmd(app *App) *cobra.Command {
	var plan, milestone, title, description, status, actor string

	cmd := &cobra.Command{
		Use:   "update <initiative-id>",
		Short: "Update an initiative's fields or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			initiativeID, err := resolveInitiativeID(ctx, app, plan, milestone, args[0])
			if err != nil {
				return err
			}

			i, err := app.Initiatives.GetByID(ctx, initiativeID)
			if err != nil {
				return err
			}
			if title != "" {
				i.Title = title
			}
			if description != "" {
				i.Description = description
			}
			if status != "" {
				if !domain.ValidStatuses[status] {
					return fmt.Errorf("invalid status %q", status)
				}
				i.Status = domain.Status(status)
			}

			if err := app.Initiatives.Update(ctx, principal, i); err != nil {
				return err
			}
			fmt.Printf("Updated initiative %s\n", i.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Parent milestone (ID or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status (PLANNED|IN_PROGRESS|COMPLETED|CANCELLED)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("milestone")

	return cmd
}

func newInitiativeAssignCmd(app *App) *cobra.Command {
	var plan, milestone, actor string
	var assignees []string

	cmd := &cobra.Command{
		Use:   "assign <initiative-id>",
		Short: "Replace an initiative's assignee set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			principal, err := resolveActor(ctx, app, actor)
			if err != nil {
				return err
			}
			initiativeID, err := resolveInitiativeID(ctx, app, plan, milestone, args[0])
			if err != nil {
				return err
			}
			assigneeIDs, err := resolveAssignees(ctx, app, assignees)
			if err != nil {
				return err
			}

			i, err := app.Initiatives.GetByID(ctx, initiativeID)
			if err != nil {
				return err
			}
			i.AssigneeIDs = assigneeIDs
			if err := app.Initiatives.Update(ctx, principal, i); err != nil {
				return err
			}
			fmt.Printf("Reassigned initiative %s to %d users\n", i.Title, len(assigneeIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "Parent plan (ID or prefix)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Parent milestone (ID or prefix)")
	cmd.Flags().StringSliceVar(&assignees, "assign", nil, "New assignee set (user IDs or names)")
	addActorFlag(cmd.Flags(), &actor)
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("milestone")
	_ = cmd.MarkFlagRequired("assign")

	return cmd
}
