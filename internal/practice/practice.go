// Package practice runs the adaptive practice mode: questions are drawn by
// weight, answered, scored and reinforced one round at a time until the
// learner stops.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/bank"
	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/selector"
)

// DefaultMinQuestions is the number of enabled questions needed to start.
const DefaultMinQuestions = 5

var (
	// ErrInsufficientQuestions is returned by Start when too few questions
	// are enabled.
	ErrInsufficientQuestions = bank.ErrInsufficientQuestions

	// ErrEmptyAnswer is returned by Answer for blank input. The round stays
	// open so the learner can try again.
	ErrEmptyAnswer = errors.New("answer must not be empty")

	// ErrInvalidState is returned when an operation is not allowed in the
	// engine's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// State is the engine's position in the round cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingAnswer
	StateScored
	StateStopped
)

// String returns a lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateScored:
		return "scored"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Bank is the subset of the question bank the engine needs.
type Bank interface {
	Enabled() []*question.Question
	Save(ctx context.Context) error
}

// Round is a drawn question waiting for an answer.
type Round struct {
	Number   int
	Question *question.Question
}

// Outcome describes a scored round.
type Outcome struct {
	Round        int
	Question     *question.Question
	Input        string
	Correct      bool
	Expected     string
	WeightBefore float64
	WeightAfter  float64

	// Score is the running number of correct answers in this session.
	Score int
}

// Summary is returned when the session stops.
type Summary struct {
	SessionID uuid.UUID
	Rounds    int
	Correct   int
	Duration  time.Duration
}

// Accuracy returns the percentage of correctly answered rounds.
func (s Summary) Accuracy() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Rounds) * 100
}

// Option configures an Engine.
type Option func(*Engine)

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

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is the practice state machine. It has a single owner.
type Engine struct {
	bank         Bank
	sel          *selector.Selector
	log          *zap.Logger
	now          func() time.Time
	minQuestions int

	state   State
	started bool
	id      uuid.UUID
	begin   time.Time
	current *Round
	rounds  int
	correct int
}

// New creates an idle engine.
func New(b Bank, sel *selector.Selector, opts ...Option) *Engine {
	e := &Engine{
		bank:         b,
		sel:          sel,
		log:          zap.NewNop(),
		now:          time.Now,
		minQuestions: DefaultMinQuestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// SessionID returns the id assigned by Start.
func (e *Engine) SessionID() uuid.UUID { return e.id }

// Current returns the open round, or nil.
func (e *Engine) Current() *Round { return e.current }

// Start begins a session. The enabled pool is checked once here; questions
// disabled later simply stop being drawn.
func (e *Engine) Start() error {
	if e.started {
		return fmt.Errorf("start: %w", ErrInvalidState)
	}
	if n := len(e.bank.Enabled()); n < e.minQuestions {
		return fmt.Errorf("practice needs at least %d enabled questions, have %d: %w",
			e.minQuestions, n, ErrInsufficientQuestions)
	}
	e.started = true
	e.id = uuid.New()
	e.begin = e.now()
	e.state = StateIdle
	e.log.Info("practice session started", zap.String("session_id", e.id.String()))
	return nil
}

// Next draws the question for the next round.
func (e *Engine) Next() (*Round, error) {
	if !e.started || (e.state != StateIdle && e.state != StateScored) {
		return nil, fmt.Errorf("next in state %s: %w", e.state, ErrInvalidState)
	}
	q, err := e.sel.Draw(e.bank.Enabled())
	if err != nil {
		return nil, fmt.Errorf("draw question: %w", err)
	}
	e.current = &Round{Number: e.rounds + 1, Question: q}
	e.state = StateAwaitingAnswer
	return e.current, nil
}

// Answer scores the open round, updates the question's practice counters
// and weight, and persists the bank. When persisting fails the outcome is
// still returned together with the error; the round counts either way.
func (e *Engine) Answer(ctx context.Context, input string) (Outcome, error) {
	if e.state != StateAwaitingAnswer {
		return Outcome{}, fmt.Errorf("answer in state %s: %w", e.state, ErrInvalidState)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	q := e.current.Question
	correct := q.Check(input)
	before := q.Weight()

	q.Record(question.ModePractice, correct)
	selector.Reinforce(q, correct)

	e.rounds++
	if correct {
		e.correct++
	}
	e.state = StateScored

	out := Outcome{
		Round:        e.current.Number,
		Question:     q,
		Input:        input,
		Correct:      correct,
		Expected:     q.Answer(),
		WeightBefore: before,
		WeightAfter:  q.Weight(),
		Score:        e.correct,
	}
	e.current = nil

	e.log.Info("practice round scored",
		zap.String("session_id", e.id.String()),
		zap.Int("round", out.Round),
		zap.Int("question_id", q.ID),
		zap.Bool("correct", correct),
		zap.Float64("weight", out.WeightAfter))

	if err := e.bank.Save(ctx); err != nil {
		e.log.Error("failed to persist practice round", zap.Error(err))
		return out, fmt.Errorf("persist round %d: %w", out.Round, err)
	}
	return out, nil
}

// Stop ends the session. An open round is discarded without scoring.
func (e *Engine) Stop() Summary {
	if e.state == StateAwaitingAnswer {
		e.log.Debug("discarded unanswered round", zap.Int("round", e.current.Number))
	}
	e.current = nil
	e.state = StateStopped

	sum := Summary{
		SessionID: e.id,
		Rounds:    e.rounds,
		Correct:   e.correct,
	}
	if e.started {
		sum.Duration = e.now().Sub(e.begin)
	}
	e.log.Info("practice session stopped",
		zap.String("session_id", e.id.String()),
		zap.Int("rounds", sum.Rounds),
		zap.Int("correct", sum.Correct))
	return sum
}
