package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/power-status-tracker/internal/services"
)

func (a *App) subscribersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscribers",
		Aliases: []string{"subs"},
		Short:   "Manage Telegram subscribers",
		Long: `Add, remove, list and test Telegram subscribers.
All subcommands require TELEGRAM_BOT_TOKEN.`,
	}
	cmd.AddCommand(
		a.subscribersTestCommand(),
		a.subscribersAddCommand(),
		a.subscribersRemoveCommand(),
		a.subscribersListCommand(),
	)
	return cmd
}

func (a *App) subscribersTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test message to the first active subscriber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireBot(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Testing Telegram bot...")

			sub, err := a.notifier.FirstActive(cmd.Context())
			if errors.Is(err, services.ErrNoActiveSubscribers) {
				return errors.New("no active subscribers found; add a subscriber first")
			}
			if err != nil {
				return fmt.Errorf("failed to load subscribers: %w", err)
			}

			sent, msg := a.notifier.SendTestMessage(cmd.Context(), sub.ChatID)
			if !sent {
				return fmt.Errorf("failed to send test message: %s", msg)
			}
			fmt.Fprintf(out, "Test message sent successfully to %d\n", sub.ChatID)
			return nil
		},
	}
}

func (a *App) subscribersAddCommand() *cobra.Command {
	var username, name string

	cmd := &cobra.Command{
		Use:   "add <chat-id>",
		Short: "Add or reactivate a subscriber",
		Long: `Register a Telegram chat and send it a test message. Group chats have
negative ids; pass them after "--", following any flags.`,
		Example: "  powertracker subscribers add 123456789 --username alice --name Alice\n" +
			"  powertracker subscribers add --name \"Home group\" -- -1001234567890",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireBot(); err != nil {
				return err
			}
			chatID, err := services.ParseChatID(args[0])
			if err != nil {
				return err
			}

			sub, err := a.notifier.AddSubscriber(cmd.Context(), chatID, username, name)
			if err != nil {
				return fmt.Errorf("failed to add subscriber: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subscriber added successfully: %s\n", sub)

			if sent, msg := a.notifier.SendTestMessage(cmd.Context(), chatID); sent {
				fmt.Fprintln(out, "Test message sent to verify subscription.")
			} else {
				fmt.Fprintf(out, "Could not send test message: %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Telegram username (optional)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (optional)")
	return cmd
}

func (a *App) subscribersRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <chat-id>",
		Aliases: []string{"rm"},
		Short:   "Deactivate a subscriber",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireBot(); err != nil {
				return err
			}
			chatID, err := services.ParseChatID(args[0])
			if err != nil {
				return err
			}

			found, err := a.notifier.RemoveSubscriber(cmd.Context(), chatID)
			if err != nil {
				return fmt.Errorf("failed to remove subscriber %d: %w", chatID, err)
			}
			if !found {
				return fmt.Errorf("failed to remove subscriber %d: not found", chatID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscriber %d removed successfully.\n", chatID)
			return nil
		},
	}
}

func (a *App) subscribersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active subscribers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireBot(); err != nil {
				return err
			}
			subs, err := a.notifier.AllActive(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subscribers: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No active subscribers found.")
				return nil
			}
			fmt.Fprintln(out, "Active subscribers:")
			for _, s := range subs {
				fmt.Fprintf(out, "  - %s\n", s)
			}
			return nil
		},
	}
}
