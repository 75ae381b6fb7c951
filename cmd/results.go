package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/record"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recorded test results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.newExam().Results(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(res) == 0 {
			fmt.Fprintln(out, "No tests taken yet.")
			return nil
		}

		for _, r := range res {
			fmt.Fprintln(out, record.FormatResult(r))
		}
		return nil
	},
}
