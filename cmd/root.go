package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "learntool",
	Short: "Terminal flashcards with adaptive practice and tests",
	Long: "learntool keeps a bank of free-form and multiple-choice questions, drills them\n" +
		"with weighted practice that favors what you get wrong, and records timed tests.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx, e.g. one cancelled on
// SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding questions, statistics and results (overrides LEARNTOOL_HOME)")
	rootCmd.PersistentFlags().String("db", "", "Use a SQLite database at this path instead of flat files (overrides LEARNTOOL_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)
}
