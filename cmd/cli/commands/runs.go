package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/peninsula-roster/pkg/core/services"
)

// RunsCmd creates the runs command
func RunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored roster runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.RequireStore()
			if err != nil {
				return err
			}

			runs, err := services.ListRosterRuns(app.Ctx, store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No roster runs stored yet.")
				return nil
			}

			fmt.Fprintf(out, "\nFound %d roster runs:\n\n", len(runs))
			for _, run := range runs {
				published := "unpublished"
				if run.PublishedAt != nil {
					published = "published " + run.PublishedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "- %s  %s to %s  people=%d shifts=%d vacant=%d swaps=%d  %s\n",
					run.ID,
					run.StartDate,
					run.EndDate(),
					run.PeopleCount,
					run.AssignmentCount,
					run.VacantCount,
					run.SwapCount,
					published,
				)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
