package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/peninsula-roster/cmd/cli/commands"
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Peninsula Roster CLI - Generate and publish hospital rosters",
		Long: `A CLI tool for allocating clinical and admin shifts across the Frankston and
Rosebud sites, and for publishing and notifying staff of the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "local", "Environment (local, test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.RunsCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.NotifyCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// PostRun is skipped when RunE fails
	app.Close()

	switch {
	case errors.Is(err, commands.ErrReported):
	case cmd != nil && cmd.Name() == commands.GenerateCmdName:
		commands.ReportFailure(os.Stderr, err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
