package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
)

// FileStore keeps each record kind in its own pipe-delimited file. Whole
// files are replaced atomically; results are only ever appended.
type FileStore struct {
	dir string
	log *zap.Logger
}

// OpenFiles returns a FileStore rooted at dir, creating dir if needed.
// Missing files read as empty.
func OpenFiles(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data directory is empty")
	}
	if err := EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	o := buildOptions(opts)
	return &FileStore{dir: dir, log: o.log}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadQuestions reads questions.txt.
func (s *FileStore) LoadQuestions(_ context.Context) ([]*question.Question, []*record.MalformedRecordError, error) {
	var (
		qs      []*question.Question
		skipped []*record.MalformedRecordError
	)
	err := s.read(QuestionsFile, func(r io.Reader) error {
		var err error
		qs, skipped, err = record.DecodeQuestions(r)
		return err
	})
	return qs, skipped, err
}

// SaveQuestions replaces questions.txt.
func (s *FileStore) SaveQuestions(_ context.Context, qs []*question.Question) error {
	return writeAtomic(s.path(QuestionsFile), func(w io.Writer) error {
		return record.EncodeQuestions(w, qs)
	})
}

// LoadStats reads statistics.txt.
func (s *FileStore) LoadStats(_ context.Context) ([]record.Stat, []*record.MalformedRecordError, error) {
	var (
		stats   []record.Stat
		skipped []*record.MalformedRecordError
	)
	err := s.read(StatisticsFile, func(r io.Reader) error {
		var err error
		stats, skipped, err = record.DecodeStats(r)
		return err
	})
	return stats, skipped, err
}

// SaveStats replaces statistics.txt.
func (s *FileStore) SaveStats(_ context.Context, stats []record.Stat) error {
	return writeAtomic(s.path(StatisticsFile), func(w io.Writer) error {
		return record.EncodeStats(w, stats)
	})
}

// ClearStats truncates statistics.txt to an empty file.
func (s *FileStore) ClearStats(_ context.Context) error {
	return writeAtomic(s.path(StatisticsFile), func(io.Writer) error { return nil })
}

// AppendResult appends one line to results.txt.
func (s *FileStore) AppendResult(_ context.Context, r record.Result) error {
	f, err := os.OpenFile(s.path(ResultsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	if _, err := fmt.Fprintln(f, record.FormatResult(r)); err != nil {
		f.Close()
		return fmt.Errorf("append result: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync results: %w", err)
	}
	return f.Close()
}

// Results reads results.txt, oldest first. Malformed lines are logged and
// skipped.
func (s *FileStore) Results(_ context.Context) ([]record.Result, error) {
	var results []record.Result
	err := s.read(ResultsFile, func(r io.Reader) error {
		res, skipped, err := record.DecodeResults(r)
		if err != nil {
			return err
		}
		for _, e := range skipped {
			s.log.Warn("skipped malformed result record", zap.Int("line", e.Line), zap.String("reason", e.Reason))
		}
		results = res
		return nil
	})
	return results, err
}

// Close is a no-op; files are not held open.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(name string, decode func(io.Reader) error) error {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return decode(f)
}

// writeAtomic writes path through a temp file in the same directory that is
// synced and renamed over the target, so readers see the old or the new
// content and never a partial file.
func writeAtomic(path string, encode func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = encode(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", base, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", base, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", base, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", base, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", base, err)
	}
	return nil
}
