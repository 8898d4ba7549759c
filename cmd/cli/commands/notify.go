package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/services"
)

// NotifyCmd creates the notify command
func NotifyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <config_path> [run_id]",
		Short: "Email staff their shifts for a roster run (defaults to latest run)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 1 {
				runID = args[1]
			}

			staff, err := config.LoadStaff(args[0])
			if err != nil {
				return err
			}

			store, err := app.RequireStore()
			if err != nil {
				return err
			}

			gmail, err := app.GmailClient()
			if err != nil {
				return err
			}

			result, err := services.NotifyStaff(app.Ctx, store, gmail, staff, app.Logger, runID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Notifications for run %s completed!\n\n", result.RunID)

			if len(result.Sent) > 0 {
				fmt.Fprintf(out, "Emails sent to %d staff:\n", len(result.Sent))
				for _, s := range result.Sent {
					fmt.Fprintf(out, "  ✓ %s (%s): %d shifts\n", s.Name, s.Email, s.Shifts)
				}
				fmt.Fprintln(out)
			}

			if len(result.Failed) > 0 {
				fmt.Fprintf(out, "⚠️  Failed to send %d emails:\n", len(result.Failed))
				for _, f := range result.Failed {
					fmt.Fprintf(out, "  ✗ %s (%s): %s\n", f.Name, f.Email, f.Error)
				}
				fmt.Fprintln(out)
			}

			if len(result.Skipped) > 0 {
				fmt.Fprintf(out, "No email address for: %v\n\n", result.Skipped)
			}

			return nil
		},
	}
}
