package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-question statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnSkipped(cmd)

		qs := e.bank.All()
		if len(qs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No questions yet.")
			return nil
		}

		t := newTable("ID", "On", "Question", "Practice", "Test", "Total", "Weight")
		for _, r := range stats.Rows(qs) {
			t.Row(strconv.Itoa(r.ID), yesNo(r.Enabled), r.Text,
				counterText(r.Practice), counterText(r.Test), counterText(r.Total()),
				fmt.Sprintf("%.2f", r.Weight))
		}

		sum := stats.Summarize(qs)
		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, t.String())
		fmt.Fprintf(out, "%d questions, %d enabled (%d free-form, %d multiple choice)\n",
			sum.Questions, sum.Enabled, sum.FreeForm, sum.Choice)
		fmt.Fprintf(out, "Practice: %s   Test: %s\n", counterText(sum.Practice), counterText(sum.Test))
		return nil
	},
}

// counterText renders "correct/shown (pct%)".
func counterText(c question.Counter) string {
	if c.Shown == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", c.Correct, c.Shown, c.Accuracy())
}
