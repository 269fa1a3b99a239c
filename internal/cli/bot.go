package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) botCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Telegram bot diagnostics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Print the bot identity reported by Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireBot(); err != nil {
				return err
			}
			info, err := a.notifier.GetBotInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get bot info: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Bot: %s (@%s)\n", info.FirstName, info.Username)
			fmt.Fprintf(out, "ID: %d\n", info.ID)
			fmt.Fprintf(out, "Can join groups: %t\n", info.CanJoinGroups)
			return nil
		},
	})
	return cmd
}
