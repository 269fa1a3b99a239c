package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/power-status-tracker/internal/domain"
	"github.com/tbourn/power-status-tracker/internal/services"
)

// timestampLayout renders local timestamps in command output.
const timestampLayout = "2006-01-02 15:04:05 -07:00"

func (a *App) statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show or update the power status",
	}
	cmd.AddCommand(a.statusSetCommand(), a.statusShowCommand())
	return cmd
}

func (a *App) statusSetCommand() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Set the power status to on or off",
		Long:    `Record the power status. Active subscribers are notified when an existing status flips.`,
		Example: "  powertracker status set --status off",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			isOn, err := domain.ParseStatus(value)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Starting power status update...")

			up, err := a.status.Set(cmd.Context(), isOn)
			if err != nil {
				log.Error().Err(err).Msg("update power status")
				return fmt.Errorf("failed to update power status: %w", err)
			}
			if up.Created {
				fmt.Fprintln(out, "Created new power status record")
			}
			fmt.Fprintf(out, "Power status updated to: %s\n", domain.StatusText(up.Status.IsOn))
			fmt.Fprintf(out, "Timestamp: %s\n", up.Status.LastUpdated.In(a.cfg.Location()).Format(timestampLayout))
			return nil
		},
	}

	cmd.Flags().StringVarP(&value, "status", "s", "", `New power status ("on" or "off")`)
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func (a *App) statusShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current power status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.status.Current(cmd.Context())
			if err != nil && !errors.Is(err, services.ErrStatusNotRecorded) {
				return fmt.Errorf("failed to read power status: %w", err)
			}

			view := domain.NewStatusView(st, a.cfg.Location())
			fmt.Fprintf(cmd.OutOrStdout(), "Power status: %s %s\nLast updated: %s\n",
				view.StatusEmoji, view.StatusText, view.FormattedTimestamp)
			return nil
		},
	}
}
