// Package exam runs the test mode: a fixed-size, unweighted sample of
// enabled questions that is answered once, scored and recorded with a
// timestamp.
package exam

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/bank"
	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
)

// DefaultMinQuestions is the smallest test size and the smallest enabled
// pool a test can be drawn from.
const DefaultMinQuestions = 5

var (
	// ErrInsufficientQuestions is returned by Start when the requested size
	// cannot be served.
	ErrInsufficientQuestions = bank.ErrInsufficientQuestions

	// ErrEmptyAnswer is returned for blank input; the question stays current.
	ErrEmptyAnswer = errors.New("answer must not be empty")

	// ErrExamDone is returned when answering a finished exam.
	ErrExamDone = errors.New("exam has no more questions")

	// ErrNotDone is returned by Finish while questions remain.
	ErrNotDone = errors.New("exam still has unanswered questions")
)

// Bank is the subset of the question bank the engine needs.
type Bank interface {
	Enabled() []*question.Question
	Save(ctx context.Context) error
}

// ResultRecorder stores completed test results.
type ResultRecorder interface {
	AppendResult(ctx context.Context, r record.Result) error
	Results(ctx context.Context) ([]record.Result, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for sampling and shuffling.
func WithSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMinQuestions overrides DefaultMinQuestions.
func WithMinQuestions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minQuestions = n
		}
	}
}

// Engine creates, scores and records tests.
type Engine struct {
	bank         Bank
	recorder     ResultRecorder
	rng          *rand.Rand
	now          func() time.Time
	log          *zap.Logger
	minQuestions int
}

// New creates a test engine.
func New(b Bank, rec ResultRecorder, opts ...Option) *Engine {
	e := &Engine{
		bank:         b,
		recorder:     rec,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:          time.Now,
		log:          zap.NewNop(),
		minQuestions: DefaultMinQuestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinQuestions returns the smallest allowed test size.
func (e *Engine) MinQuestions() int { return e.minQuestions }

// PlanSizes splits a test of n questions between multiple-choice and
// free-form questions. Multiple choice gets half (rounded down) and
// free-form the rest, each capped by what is available. A shortfall in one
// kind is not made up from the other, so quiz+free may be less than n.
func PlanSizes(n, quizAvail, freeAvail int) (quiz, free int) {
	quiz = min(n/2, quizAvail)
	free = min(n-quiz, freeAvail)
	return quiz, free
}

// Start samples a new test of n questions. Nothing is sampled when the
// request is rejected.
func (e *Engine) Start(n int) (*Exam, error) {
	enabled := e.bank.Enabled()
	switch {
	case len(enabled) < e.minQuestions:
		return nil, fmt.Errorf("a test needs at least %d enabled questions, have %d: %w",
			e.minQuestions, len(enabled), ErrInsufficientQuestions)
	case n < e.minQuestions:
		return nil, fmt.Errorf("test size %d is below the minimum of %d: %w",
			n, e.minQuestions, ErrInsufficientQuestions)
	case n > len(enabled):
		return nil, fmt.Errorf("test size %d exceeds %d enabled questions: %w",
			n, len(enabled), ErrInsufficientQuestions)
	}

	var quiz, free []*question.Question
	for _, q := range enabled {
		if q.IsMultipleChoice() {
			quiz = append(quiz, q)
		} else {
			free = append(free, q)
		}
	}
	nQuiz, nFree := PlanSizes(n, len(quiz), len(free))

	picked := append(e.sample(quiz, nQuiz), e.sample(free, nFree)...)
	e.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	ex := &Exam{
		ID:        uuid.New(),
		Started:   e.now(),
		questions: picked,
		requested: n,
	}
	e.log.Info("test started",
		zap.String("test_id", ex.ID.String()),
		zap.Int("requested", n),
		zap.Int("multiple_choice", nQuiz),
		zap.Int("free_form", nFree))
	return ex, nil
}

// sample returns k distinct questions from pool, chosen uniformly.
func (e *Engine) sample(pool []*question.Question, k int) []*question.Question {
	idx := e.rng.Perm(len(pool))[:k]
	out := make([]*question.Question, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// Finish scores a completed exam against the requested size, persists the
// updated test counters and appends the result record.
func (e *Engine) Finish(ctx context.Context, ex *Exam) (record.Result, error) {
	if !ex.Done() {
		return record.Result{}, ErrNotDone
	}

	res := record.Result{
		ID:         ex.ID.String(),
		Time:       e.now(),
		Percentage: 100 * float64(ex.correct) / float64(ex.requested),
		Correct:    ex.correct,
		Total:      ex.requested,
	}

	var errs []error
	if err := e.bank.Save(ctx); err != nil {
		e.log.Error("failed to persist test counters", zap.Error(err))
		errs = append(errs, fmt.Errorf("save bank: %w", err))
	}
	if err := e.recorder.AppendResult(ctx, res); err != nil {
		e.log.Error("failed to record test result", zap.Error(err))
		errs = append(errs, fmt.Errorf("record result: %w", err))
	}

	e.log.Info("test finished",
		zap.String("test_id", res.ID),
		zap.Float64("percentage", res.Percentage),
		zap.Int("correct", res.Correct),
		zap.Int("requested", res.Total),
		zap.Int("realized", ex.Realized()))
	return res, errors.Join(errs...)
}

// Abandon persists the counters of the questions answered so far without
// recording a result.
func (e *Engine) Abandon(ctx context.Context, ex *Exam) error {
	e.log.Info("test abandoned",
		zap.String("test_id", ex.ID.String()),
		zap.Int("answered", ex.pos))
	if ex.pos == 0 {
		return nil
	}
	if err := e.bank.Save(ctx); err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}

// Results returns the recorded test history, oldest first.
func (e *Engine) Results(ctx context.Context) ([]record.Result, error) {
	res, err := e.recorder.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return res, nil
}

// Outcome describes one answered test question.
type Outcome struct {
	Position int
	Question *question.Question
	Input    string
	Correct  bool
	Expected string
}

// Exam is a sampled test in progress.
type Exam struct {
	ID      uuid.UUID
	Started time.Time

	questions []*question.Question
	requested int
	pos       int
	correct   int
}

// Current returns the question to answer next, or nil when done.
func (ex *Exam) Current() *question.Question {
	if ex.Done() {
		return nil
	}
	return ex.questions[ex.pos]
}

// Position returns the 1-based position of the current question.
func (ex *Exam) Position() int { return ex.pos + 1 }

// Answer scores the current question and records its test counters.
func (ex *Exam) Answer(input string) (Outcome, error) {
	if ex.Done() {
		return Outcome{}, ErrExamDone
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	q := ex.questions[ex.pos]
	correct := q.Check(input)
	q.Record(question.ModeTest, correct)
	if correct {
		ex.correct++
	}
	ex.pos++

	return Outcome{
		Position: ex.pos,
		Question: q,
		Input:    input,
		Correct:  correct,
		Expected: q.Answer(),
	}, nil
}

// Done reports whether every sampled question has been answered.
func (ex *Exam) Done() bool { return ex.pos >= len(ex.questions) }

// Requested returns the size the learner asked for. It is the score
// denominator.
func (ex *Exam) Requested() int { return ex.requested }

// Realized returns how many questions were actually sampled.
func (ex *Exam) Realized() int { return len(ex.questions) }

// Correct returns the number of correct answers so far.
func (ex *Exam) Correct() int { return ex.correct }

// Questions returns the sampled questions in presentation order.
func (ex *Exam) Questions() []*question.Question {
	out := make([]*question.Question, len(ex.questions))
	copy(out, ex.questions)
	return out
}
