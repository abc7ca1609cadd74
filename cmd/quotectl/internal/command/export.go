package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/export/monday"
)

func (a *app) exportCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-check",
		Short: "Verify the monday.com token and board settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.MondayEnabled() {
				return fmt.Errorf("monday export is not configured: set MONDAY_API_TOKEN and MONDAY_BOARD_ID")
			}

			name, err := monday.NewClient(monday.OptionsFromConfig(a.cfg)).Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("monday connection test: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "connected to monday.com as %s (board %s)\n", name, a.cfg.Monday.BoardID)

			return nil
		},
	}
}
