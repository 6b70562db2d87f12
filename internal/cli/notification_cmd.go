package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/plantrack/internal/cli/formatter"
	"github.com/alexanderramin/plantrack/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newNotificationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notif"},
		Short:   "Read and watch notifications",
	}

	cmd.AddCommand(
		newNotificationListCmd(app),
		newNotificationReadCmd(app),
		newNotificationWatchCmd(app),
	)

	return cmd
}

func newNotificationListCmd(app *App) *cobra.Command {
	var user string
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}

			var notifications []*domain.Notification
			if unreadOnly {
				notifications, err = app.Notifications.ListUnread(ctx, userID)
			} else {
				notifications, err = app.Notifications.ListByUser(ctx, userID)
			}
			if err != nil {
				return err
			}
			if len(notifications) == 0 {
				fmt.Println("No notifications.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatNotificationList(notifications))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User (ID or name)")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only unread notifications")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newNotificationReadCmd(app *App) *cobra.Command {
	var user string
	var all bool

	cmd := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark notifications as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if all {
				userID, err := resolveUserID(ctx, app, user)
				if err != nil {
					return err
				}
				if err := app.Notifications.MarkAllRead(ctx, userID); err != nil {
					return err
				}
				fmt.Println("Marked all notifications read.")
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a notification ID or --all is required")
			}
			if err := app.Notifications.MarkRead(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Marked read.")
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User (ID or name, required with --all)")
	cmd.Flags().BoolVar(&all, "all", false, "Mark every notification of --user read")
	return cmd
}

func newNotificationWatchCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a user's notifications live",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID, err := resolveUserID(ctx, app, user)
			if err != nil {
				return err
			}
			u, err := app.Users.GetByID(ctx, userID)
			if err != nil {
				return err
			}

			sub := app.Notifications.Subscribe(userID)
			defer sub.Close()

			program := tea.NewProgram(newWatchModel(u.Name, sub))
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User (ID or name)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
