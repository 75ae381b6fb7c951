package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/bank"
)

var enableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Include a question in practice and tests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Exclude a question from practice and tests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], false)
	},
}

func setEnabled(cmd *cobra.Command, arg string, enabled bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return fmt.Errorf("invalid question id %q", arg)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	e.warnSkipped(cmd)

	state := "disabled"
	if enabled {
		state = "enabled"
		err = e.bank.Enable(cmd.Context(), id)
	} else {
		err = e.bank.Disable(cmd.Context(), id)
	}

	switch {
	case errors.Is(err, bank.ErrAlreadyInState):
		fmt.Fprintf(cmd.OutOrStdout(), "Question %d is already %s.\n", id, state)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Question %d %s.\n", id, state)
	return nil
}
