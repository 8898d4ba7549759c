package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/peninsula-roster/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [run_id]",
		Short: "Publish a roster run to the roster sheet (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			store, err := app.RequireStore()
			if err != nil {
				return err
			}

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.PublishRoster(app.Ctx, store, sheets, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Roster published!\n\n")
			fmt.Fprintf(out, "Run ID: %s\n", result.RunID)
			fmt.Fprintf(out, "Tab:    %s\n", result.TabTitle)
			fmt.Fprintf(out, "Days:   %d\n\n", len(result.Roster.Rows)-1)

			return nil
		},
	}
}
