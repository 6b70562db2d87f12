package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if r != domain.RoleAdmin && r != domain.RoleManager && r != domain.RoleEmployee {
				return fmt.Errorf("invalid role %q", role)
			}

			u := &domain.User{
				ID:        uuid.New().String(),
				Name:      name,
				Email:     email,
				Role:      r,
				Status:    domain.UserActive,
				CreatedAt: time.Now().UTC(),
			}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s [%s]\n", u.Name, formatter.TruncID(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleEmployee), "Role (ADMIN|MANAGER|EMPLOYEE)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background(), !all)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			headers := []string{"ID", "NAME", "EMAIL", "ROLE", "STATUS"}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				status := formatter.StyleGreen.Render("ACTIVE")
				if u.Status != domain.UserActive {
					status = formatter.Dim(string(u.Status))
				}
				rows = append(rows, []string{
					formatter.Dim(formatter.TruncID(u.ID)),
					formatter.Bold(u.Name),
					formatter.StyleFg.Render(u.Email),
					formatter.RoleBadge(u.Role),
					status,
				})
			}
			fmt.Printf("%s\n", formatter.RenderBox("Users", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive users")
	return cmd
}
