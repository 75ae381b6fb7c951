package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotConfirmed = errors.New("refusing to delete questions without confirmation; pass --yes")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every question and all statistics",
	Long: "Delete every question and all statistics. Test results are kept.\n" +
		"Asks for confirmation on a terminal; use --yes in scripts.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(cmd, "Delete all questions and statistics? [y/N] ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
				return nil
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n := e.bank.Len()
		if err := e.bank.DeleteAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d questions.\n", n)
		return nil
	},
}

// confirm asks a y/N question when stdin is a terminal. Without a terminal
// it refuses.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return false, errNotConfirmed
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	return readYes(in)
}

func readYes(r io.Reader) (bool, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
