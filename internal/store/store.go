// Package store persists the question bank, its statistics and test
// results. Two backends exist: pipe-delimited flat files (the default) and
// a SQLite database.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
)

// Driver names a backend.
type Driver string

const (
	DriverFiles  Driver = "files"
	DriverSQLite Driver = "sqlite"
)

// File names inside the data directory.
const (
	QuestionsFile  = "questions.txt"
	StatisticsFile = "statistics.txt"
	ResultsFile    = "results.txt"
	DatabaseFile   = "learntool.db"
)

// Backend is the durable storage used by the question bank and the test
// engine.
type Backend interface {
	LoadQuestions(ctx context.Context) ([]*question.Question, []*record.MalformedRecordError, error)
	SaveQuestions(ctx context.Context, qs []*question.Question) error
	LoadStats(ctx context.Context) ([]record.Stat, []*record.MalformedRecordError, error)
	SaveStats(ctx context.Context, stats []record.Stat) error
	ClearStats(ctx context.Context) error
	AppendResult(ctx context.Context, r record.Result) error
	Results(ctx context.Context) ([]record.Result, error)
	Close() error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the backend's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open returns the backend for driver. For DriverFiles location is the data
// directory; for DriverSQLite it is the database DSN or file path.
func Open(driver Driver, location string, opts ...Option) (Backend, error) {
	switch driver {
	case DriverFiles, "":
		return OpenFiles(location, opts...)
	case DriverSQLite:
		return OpenSQLite(location, opts...)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

// DefaultDataDir resolves the data directory in priority order:
// 1. LEARNTOOL_HOME environment variable
// 2. $XDG_DATA_HOME/learntool
// 3. ~/.local/share/learntool
func DefaultDataDir() (string, error) {
	if p := os.Getenv("LEARNTOOL_HOME"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "learntool"), nil
}

// EnsureDir creates dir if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
