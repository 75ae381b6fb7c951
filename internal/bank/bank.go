// Package bank owns the question bank: id assignment, enable/disable,
// wholesale reset and persistence through a Repo.
package bank

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
	"github.com/abhisek/learntool/internal/stats"
)

var (
	// ErrNotFound is returned for unknown question ids.
	ErrNotFound = errors.New("question not found")

	// ErrAlreadyInState is returned when enabling an enabled question or
	// disabling a disabled one. Nothing is mutated.
	ErrAlreadyInState = errors.New("question already in requested state")

	// ErrInsufficientQuestions is returned by the practice and test engines
	// when the enabled pool is too small.
	ErrInsufficientQuestions = errors.New("insufficient questions")
)

// Repo persists questions and their statistics.
type Repo interface {
	LoadQuestions(ctx context.Context) ([]*question.Question, []*record.MalformedRecordError, error)
	SaveQuestions(ctx context.Context, qs []*question.Question) error
	LoadStats(ctx context.Context) ([]record.Stat, []*record.MalformedRecordError, error)
	SaveStats(ctx context.Context, stats []record.Stat) error
	ClearStats(ctx context.Context) error
}

// SnapshotSaver is implemented by repos that can write questions and
// statistics in one atomic step.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, qs []*question.Question, stats []record.Stat) error
}

// LoadReport describes what Load read and what it had to skip.
type LoadReport struct {
	Loaded int

	// Skipped holds 1-based line numbers of malformed question records.
	Skipped []int

	// SkippedStats holds 1-based line numbers of malformed statistics records.
	SkippedStats []int

	// Orphaned holds ids of statistics entries without a question.
	Orphaned []int
}

// Store is the in-memory question bank. It has a single owner and is not
// safe for concurrent use.
type Store struct {
	repo      Repo
	log       *zap.Logger
	questions []*question.Question
	nextID    int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty Store backed by repo.
func New(repo Repo, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		log:    zap.NewNop(),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory bank with the persisted one. Malformed lines
// are skipped and reported; only I/O failures abort the load.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	qs, skipped, err := s.repo.LoadQuestions(ctx)
	if err != nil {
		return LoadReport{}, fmt.Errorf("load questions: %w", err)
	}
	entries, skippedStats, err := s.repo.LoadStats(ctx)
	if err != nil {
		return LoadReport{}, fmt.Errorf("load statistics: %w", err)
	}

	for _, e := range skipped {
		s.log.Warn("skipped malformed question record", zap.Int("line", e.Line), zap.String("reason", e.Reason))
	}
	for _, e := range skippedStats {
		s.log.Warn("skipped malformed statistics record", zap.Int("line", e.Line), zap.String("reason", e.Reason))
	}

	rec := stats.Reconcile(qs, entries)
	if len(rec.Orphaned) > 0 {
		s.log.Debug("dropped orphaned statistics", zap.Ints("ids", rec.Orphaned))
	}
	if len(rec.Invalid) > 0 {
		s.log.Warn("ignored inconsistent statistics", zap.Ints("ids", rec.Invalid))
	}

	s.questions = qs
	s.nextID = maxID(qs) + 1

	rep := LoadReport{
		Loaded:       len(qs),
		Skipped:      record.Lines(skipped),
		SkippedStats: record.Lines(skippedStats),
		Orphaned:     rec.Orphaned,
	}
	s.log.Info("question bank loaded",
		zap.Int("questions", rep.Loaded),
		zap.Int("skipped", len(rep.Skipped)),
		zap.Int("skipped_stats", len(rep.SkippedStats)))
	return rep, nil
}

// Save writes questions and statistics. Both are derived from the same
// in-memory questions, so they never disagree after a save.
func (s *Store) Save(ctx context.Context) error {
	if ss, ok := s.repo.(SnapshotSaver); ok {
		if err := ss.SaveSnapshot(ctx, s.questions, stats.Entries(s.questions)); err != nil {
			return fmt.Errorf("save bank: %w", err)
		}
		return nil
	}
	if err := s.repo.SaveQuestions(ctx, s.questions); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	if err := s.repo.SaveStats(ctx, stats.Entries(s.questions)); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

// Add validates q, assigns the next id and persists the bank. On failure
// the bank is left unchanged.
func (s *Store) Add(ctx context.Context, q *question.Question) (int, error) {
	if q == nil {
		return 0, &question.ValidationError{Field: "question", Reason: "must not be nil"}
	}
	if err := q.Validate(); err != nil {
		return 0, err
	}

	id := max(s.nextID, maxID(s.questions)+1)
	prevNext := s.nextID

	q.ID = id
	s.questions = append(s.questions, q)
	s.nextID = id + 1

	if err := s.Save(ctx); err != nil {
		s.questions = s.questions[:len(s.questions)-1]
		s.nextID = prevNext
		q.ID = 0
		return 0, err
	}
	return id, nil
}

// Get returns the question with the given id.
func (s *Store) Get(id int) (*question.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
}

// Enable marks a question as enabled.
func (s *Store) Enable(ctx context.Context, id int) error {
	return s.setEnabled(ctx, id, true)
}

// Disable marks a question as disabled.
func (s *Store) Disable(ctx context.Context, id int) error {
	return s.setEnabled(ctx, id, false)
}

func (s *Store) setEnabled(ctx context.Context, id int, enabled bool) error {
	q, err := s.Get(id)
	if err != nil {
		return err
	}
	if q.Enabled == enabled {
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		return fmt.Errorf("question %d is %s: %w", id, state, ErrAlreadyInState)
	}

	q.Enabled = enabled
	if err := s.Save(ctx); err != nil {
		q.Enabled = !enabled
		return err
	}
	return nil
}

// DeleteAll removes every question and clears the statistics record. The
// id counter restarts at 1. Callers must confirm with the user first.
func (s *Store) DeleteAll(ctx context.Context) error {
	prev, prevNext := s.questions, s.nextID

	s.ResetWeights()
	s.questions = nil
	s.nextID = 1

	if ss, ok := s.repo.(SnapshotSaver); ok {
		if err := ss.SaveSnapshot(ctx, nil, nil); err != nil {
			s.questions, s.nextID = prev, prevNext
			return fmt.Errorf("clear bank: %w", err)
		}
	} else {
		if err := s.repo.SaveQuestions(ctx, nil); err != nil {
			s.questions, s.nextID = prev, prevNext
			return fmt.Errorf("save questions: %w", err)
		}
		if err := s.repo.ClearStats(ctx); err != nil {
			return fmt.Errorf("clear statistics: %w", err)
		}
	}
	s.log.Info("question bank cleared", zap.Int("deleted", len(prev)))
	return nil
}

// ResetWeights sets every question's selection weight back to the default.
func (s *Store) ResetWeights() {
	for _, q := range s.questions {
		q.SetWeight(question.DefaultWeight)
	}
}

// Enabled returns the enabled questions in insertion order.
func (s *Store) Enabled() []*question.Question {
	out := make([]*question.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Enabled {
			out = append(out, q)
		}
	}
	return out
}

// All returns every question in insertion order.
func (s *Store) All() []*question.Question {
	out := make([]*question.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Len returns the number of questions.
func (s *Store) Len() int {
	return len(s.questions)
}

// NextID returns the id the next added question will receive.
func (s *Store) NextID() int {
	return max(s.nextID, maxID(s.questions)+1)
}

func maxID(qs []*question.Question) int {
	m := 0
	for _, q := range qs {
		if q.ID > m {
			m = q.ID
		}
	}
	return m
}
