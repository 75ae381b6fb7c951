package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learntool/internal/app"
	"github.com/abhisek/learntool/internal/practice"
	"github.com/abhisek/learntool/internal/screens/home"
)

// runApp opens the environment and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	e.warnSkipped(cmd)

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	opts := app.Options{
		Home: home.Deps{
			Bank:        e.bank,
			NewPractice: func() *practice.Engine { return e.newPractice() },
			PracticeMin: e.cfg.Practice.MinQuestions,
			Exam:        e.newExam(),
			TestSize:    e.cfg.Test.DefaultSize,
		},
		SkipSplash: noSplash,
		Logger:     e.log,
	}
	return app.Run(cmd.Context(), opts)
}
