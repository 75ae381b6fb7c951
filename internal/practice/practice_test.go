package practice

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/selector"
)

type fakeBank struct {
	questions []*question.Question
	saves     int
	saveErr   error
}

func (b *fakeBank) Enabled() []*question.Question {
	var out []*question.Question
	for _, q := range b.questions {
		if q.Enabled {
			out = append(out, q)
		}
	}
	return out
}

func (b *fakeBank) Save(context.Context) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	return nil
}

func newBank(t *testing.T, n int) *fakeBank {
	t.Helper()
	b := &fakeBank{}
	for i := 0; i < n; i++ {
		q, err := question.NewFreeForm("What is the capital of France?", "Paris")
		require.NoError(t, err)
		q.ID = i + 1
		b.questions = append(b.questions, q)
	}
	return b
}

func newEngine(b Bank, opts ...Option) *Engine {
	return New(b, selector.New(rand.NewPCG(1, 1)), opts...)
}

func TestStart_InsufficientQuestions(t *testing.T) {
	b := newBank(t, 5)
	b.questions[4].Enabled = false

	e := newEngine(b)
	err := e.Start()
	assert.ErrorIs(t, err, ErrInsufficientQuestions)
	assert.Equal(t, StateIdle, e.State())

	_, err = e.Next()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStart_MinQuestionsOption(t *testing.T) {
	e := newEngine(newBank(t, 2), WithMinQuestions(2))
	require.NoError(t, e.Start())
	assert.NotEqual(t, uuid.Nil, e.SessionID())
	assert.ErrorIs(t, e.Start(), ErrInvalidState)
}

func TestAnswer_CorrectRound(t *testing.T) {
	b := newBank(t, 5)
	e := newEngine(b)
	require.NoError(t, e.Start())

	round, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, StateAwaitingAnswer, e.State())

	out, err := e.Answer(context.Background(), "  paris ")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, "paris", out.Input)
	assert.Equal(t, "Paris", out.Expected)
	assert.Equal(t, 1.0, out.WeightBefore)
	assert.InDelta(t, 0.8, out.WeightAfter, 1e-9)
	assert.Equal(t, 1, out.Score)
	assert.Equal(t, StateScored, e.State())

	q := round.Question
	assert.Equal(t, question.Counter{Shown: 1, Correct: 1}, q.Counters(question.ModePractice))
	assert.Equal(t, question.Counter{}, q.Counters(question.ModeTest))
	assert.InDelta(t, 0.8, q.Weight(), 1e-9)
	assert.Equal(t, 1, b.saves)
}

func TestAnswer_IncorrectRound(t *testing.T) {
	b := newBank(t, 5)
	e := newEngine(b)
	require.NoError(t, e.Start())

	round, err := e.Next()
	require.NoError(t, err)
	out, err := e.Answer(context.Background(), "Lyon")
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, 0, out.Score)
	assert.InDelta(t, 1.2, round.Question.Weight(), 1e-9)
	assert.Equal(t, question.Counter{Shown: 1}, round.Question.Counters(question.ModePractice))
}

func TestAnswer_EmptyInputKeepsRoundOpen(t *testing.T) {
	b := newBank(t, 5)
	e := newEngine(b)
	require.NoError(t, e.Start())
	round, err := e.Next()
	require.NoError(t, err)

	_, err = e.Answer(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Equal(t, StateAwaitingAnswer, e.State())
	assert.Equal(t, question.Counter{}, round.Question.Counters(question.ModePractice))
	assert.Equal(t, 0, b.saves)
}

func TestAnswer_OutOfOrder(t *testing.T) {
	e := newEngine(newBank(t, 5))
	require.NoError(t, e.Start())

	_, err := e.Answer(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = e.Next()
	require.NoError(t, err)
	_, err = e.Next()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAnswer_PersistsEveryRound(t *testing.T) {
	b := newBank(t, 5)
	e := newEngine(b)
	require.NoError(t, e.Start())

	for i := 1; i <= 4; i++ {
		round, err := e.Next()
		require.NoError(t, err)
		assert.Equal(t, i, round.Number)
		_, err = e.Answer(context.Background(), "Paris")
		require.NoError(t, err)
		assert.Equal(t, i, b.saves)
	}
}

func TestAnswer_SaveFailureStillScores(t *testing.T) {
	b := newBank(t, 5)
	b.saveErr = errors.New("disk full")
	e := newEngine(b)
	require.NoError(t, e.Start())
	_, err := e.Next()
	require.NoError(t, err)

	out, err := e.Answer(context.Background(), "Paris")
	require.Error(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, StateScored, e.State())
}

func TestStop_DiscardsOpenRound(t *testing.T) {
	b := newBank(t, 5)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start
	e := newEngine(b, WithClock(func() time.Time { return now }))
	require.NoError(t, e.Start())

	_, err := e.Next()
	require.NoError(t, err)
	_, err = e.Answer(context.Background(), "Paris")
	require.NoError(t, err)

	round, err := e.Next()
	require.NoError(t, err)
	now = start.Add(90 * time.Second)

	sum := e.Stop()
	assert.Equal(t, StateStopped, e.State())
	assert.Nil(t, e.Current())
	assert.Equal(t, 1, sum.Rounds)
	assert.Equal(t, 1, sum.Correct)
	assert.Equal(t, 100.0, sum.Accuracy())
	assert.Equal(t, 90*time.Second, sum.Duration)
	assert.Equal(t, e.SessionID(), sum.SessionID)
	assert.Equal(t, 1, b.saves)

	total := 0
	for _, q := range b.questions {
		total += q.Counters(question.ModePractice).Shown
	}
	assert.Equal(t, 1, total, "open round %d not scored", round.Number)

	_, err = e.Next()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNext_SkipsQuestionsDisabledMidSession(t *testing.T) {
	b := newBank(t, 5)
	e := newEngine(b)
	require.NoError(t, e.Start())

	for _, q := range b.questions[1:] {
		q.Enabled = false
	}
	for i := 0; i < 20; i++ {
		round, err := e.Next()
		require.NoError(t, err)
		assert.Equal(t, 1, round.Question.ID)
		_, err = e.Answer(context.Background(), "x")
		require.NoError(t, err)
	}

	b.questions[0].Enabled = false
	_, err := e.Next()
	assert.ErrorIs(t, err, selector.ErrEmptyPool)
}

func TestSummary_AccuracyNoRounds(t *testing.T) {
	assert.Equal(t, 0.0, Summary{}.Accuracy())
}
