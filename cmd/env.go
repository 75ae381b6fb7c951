package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/bank"
	"github.com/abhisek/learntool/internal/config"
	"github.com/abhisek/learntool/internal/exam"
	"github.com/abhisek/learntool/internal/logger"
	"github.com/abhisek/learntool/internal/practice"
	"github.com/abhisek/learntool/internal/selector"
	"github.com/abhisek/learntool/internal/store"
)

// env is everything a command needs: resolved config, logger, storage and
// the loaded question bank.
type env struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func() error
	backend  store.Backend
	bank     *bank.Store
	report   bank.LoadReport
}

// openEnv resolves configuration from flags, opens storage and loads the
// bank. Callers must Close the returned env.
func openEnv(cmd *cobra.Command) (*env, error) {
	ov := config.Overrides{}
	ov.DataDir, _ = cmd.Flags().GetString("data-dir")
	ov.DB, _ = cmd.Flags().GetString("db")
	ov.LogLevel, _ = cmd.Flags().GetString("log-level")

	cfg, err := config.Load(ov)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	log, closeLog, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	e := &env{cfg: cfg, log: log, closeLog: closeLog}

	backend, err := store.Open(store.Driver(cfg.Storage.Driver), cfg.StorageLocation(), store.WithLogger(log))
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.backend = backend

	e.bank = bank.New(backend, bank.WithLogger(log))
	e.report, err = e.bank.Load(cmd.Context())
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("load questions: %w", err)
	}

	log.Debug("environment ready",
		zap.String("command", cmd.Name()),
		zap.String("data_dir", cfg.DataDir),
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("questions", e.report.Loaded))
	return e, nil
}

// warnSkipped tells the user about malformed records found while loading.
func (e *env) warnSkipped(cmd *cobra.Command) {
	r := e.report
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed question record(s) at line(s) %v\n", n, r.Skipped)
	}
	if n := len(r.SkippedStats); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed statistics record(s) at line(s) %v\n", n, r.SkippedStats)
	}
}

func (e *env) newPractice() *practice.Engine {
	return practice.New(e.bank, selector.New(nil),
		practice.WithLogger(e.log),
		practice.WithMinQuestions(e.cfg.Practice.MinQuestions))
}

func (e *env) newExam() *exam.Engine {
	return exam.New(e.bank, e.backend,
		exam.WithLogger(e.log),
		exam.WithMinQuestions(e.cfg.Test.MinQuestions))
}

// Close releases storage and flushes the log.
func (e *env) Close() error {
	var errs []error
	if e.backend != nil {
		errs = append(errs, e.backend.Close())
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
	if e.closeLog != nil {
		errs = append(errs, e.closeLog())
	}
	return errors.Join(errs...)
}
