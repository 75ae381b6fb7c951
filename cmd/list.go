package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/question"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the questions in the bank",
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

		t := newTable("ID", "On", "Kind", "Question", "Answer")
		for _, q := range qs {
			t.Row(strconv.Itoa(q.ID), yesNo(q.Enabled), q.Kind().String(), q.Text, answerCell(q))
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

// answerCell shows the answer, with numbered options for multiple choice.
func answerCell(q *question.Question) string {
	if !q.IsMultipleChoice() {
		return q.Answer()
	}
	opts := q.Options()
	parts := make([]string, len(opts))
	for i, o := range opts {
		mark := ""
		if i == q.CorrectIndex() {
			mark = "*"
		}
		parts[i] = fmt.Sprintf("%d) %s%s", i+1, o, mark)
	}
	return strings.Join(parts, "  ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
