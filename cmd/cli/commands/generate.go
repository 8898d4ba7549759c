package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/core/allocator"
	"github.com/jakechorley/peninsula-roster/pkg/core/services"
)

// GenerateCmdName is the command whose failures are reported as JSON
const GenerateCmdName = "generate"

// ErrReported marks an error that has already been written for the user
var ErrReported = errors.New("error already reported")

// GenerateCmd creates the generate command. On success it writes exactly one
// JSON object to stdout; on failure one JSON object to stderr.
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   GenerateCmdName + " <config_path> <weeks> <start_date>",
		Short: "Generate a roster from a staff document",
		Long: `Generate a roster for <weeks> weeks starting on <start_date> (YYYY-MM-DD).
The result, including the calendar, doctor and summary CSVs, is printed as JSON.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := runGenerate(app, args[0], args[1], args[2], dryRun)
			if err != nil {
				ReportFailure(cmd.ErrOrStderr(), err)
				return ErrReported
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Generate without storing the run")

	return cmd
}

func runGenerate(app *AppContext, configPath, weeksArg, startDate string, dryRun bool) (*services.GenerateResult, error) {
	weeks, err := strconv.Atoi(weeksArg)
	if err != nil {
		return nil, fmt.Errorf("%w: weeks must be a number: %w", allocator.ErrConfiguration, err)
	}

	staff, err := config.LoadStaff(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", allocator.ErrConfiguration, err)
	}

	store, err := app.Store()
	if err != nil {
		return nil, err
	}

	return services.GenerateRoster(app.Ctx, store, app.Logger, services.GenerateInput{
		Staff:     staff,
		StartDate: startDate,
		Weeks:     weeks,
		DryRun:    dryRun,
	})
}

// ReportFailure writes the failure object of the generate contract
func ReportFailure(w io.Writer, err error) {
	_ = writeJSON(w, services.NewFailureResult(err))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
