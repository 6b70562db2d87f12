package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	var entityType, entityID, actor, since, until string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter := repository.AuditFilter{
				EntityType: domain.EntityType(entityType),
				EntityID:   entityID,
				Actor:      actor,
			}
			if since != "" {
				from, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid since date %q: %w", since, err)
				}
				filter.From = &from
			}
			if until != "" {
				to, err := time.Parse("2006-01-02", until)
				if err != nil {
					return fmt.Errorf("invalid until date %q: %w", until, err)
				}
				// Make the bound inclusive of the whole day.
				to = to.AddDate(0, 0, 1)
				filter.Until = &to
			}

			entries, err := app.Audit.Query(ctx, filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatAuditList(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type (PLAN|MILESTONE|INITIATIVE)")
	cmd.Flags().StringVar(&entityID, "entity", "", "Entity ID")
	cmd.Flags().StringVar(&actor, "by", "", "Acting user name")
	cmd.Flags().StringVar(&since, "since", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Latest date (YYYY-MM-DD)")

	return cmd
}
