package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/question"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question to the bank",
}

var addFreeCmd = &cobra.Command{
	Use:     "free",
	Short:   "Add a free-form question",
	Example: `  learntool add free --text "Capital of France?" --answer Paris`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		answer, _ := cmd.Flags().GetString("answer")

		q, err := question.NewFreeForm(text, answer)
		if err != nil {
			return err
		}
		return addQuestion(cmd, q)
	},
}

var addChoiceCmd = &cobra.Command{
	Use:     "choice",
	Short:   "Add a multiple-choice question",
	Example: `  learntool add choice --text "2+2?" --option 3 --option 4 --option 5 --correct 2`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		options, _ := cmd.Flags().GetStringArray("option")
		correct, _ := cmd.Flags().GetInt("correct")

		q, err := question.NewMultipleChoice(text, options, correct-1)
		if err != nil {
			return err
		}
		return addQuestion(cmd, q)
	},
}

func addQuestion(cmd *cobra.Command, q *question.Question) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	e.warnSkipped(cmd)

	id, err := e.bank.Add(cmd.Context(), q)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s question %d.\n", q.Kind(), id)
	return nil
}

func init() {
	addFreeCmd.Flags().String("text", "", "Question text")
	addFreeCmd.Flags().String("answer", "", "Expected answer (compared case-insensitively)")
	_ = addFreeCmd.MarkFlagRequired("text")
	_ = addFreeCmd.MarkFlagRequired("answer")

	addChoiceCmd.Flags().String("text", "", "Question text")
	addChoiceCmd.Flags().StringArray("option", nil, "An answer option; repeat for each option in order")
	addChoiceCmd.Flags().Int("correct", 0, "1-based number of the correct option")
	_ = addChoiceCmd.MarkFlagRequired("text")
	_ = addChoiceCmd.MarkFlagRequired("option")
	_ = addChoiceCmd.MarkFlagRequired("correct")

	addCmd.AddCommand(addFreeCmd)
	addCmd.AddCommand(addChoiceCmd)
}
