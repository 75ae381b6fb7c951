package exam

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
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

type fakeRecorder struct {
	results   []record.Result
	appendErr error
}

func (r *fakeRecorder) AppendResult(_ context.Context, res record.Result) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.results = append(r.results, res)
	return nil
}

func (r *fakeRecorder) Results(context.Context) ([]record.Result, error) {
	return r.results, nil
}

// bankWith builds a bank of quiz multiple-choice questions answered "B"
// and free free-form questions answered "yes".
func bankWith(t *testing.T, quiz, free int) *fakeBank {
	t.Helper()
	b := &fakeBank{}
	id := 1
	for i := 0; i < quiz; i++ {
		q, err := question.NewMultipleChoice(fmt.Sprintf("quiz %d", i), []string{"A", "B", "C"}, 1)
		require.NoError(t, err)
		q.ID = id
		id++
		b.questions = append(b.questions, q)
	}
	for i := 0; i < free; i++ {
		q, err := question.NewFreeForm(fmt.Sprintf("free %d", i), "yes")
		require.NoError(t, err)
		q.ID = id
		id++
		b.questions = append(b.questions, q)
	}
	return b
}

var fixedTime = time.Date(2024, 5, 17, 14, 3, 9, 0, time.Local)

func newEngine(b Bank, rec ResultRecorder) *Engine {
	return New(b, rec,
		WithSource(rand.NewPCG(11, 22)),
		WithClock(func() time.Time { return fixedTime }))
}

func TestPlanSizes(t *testing.T) {
	tests := []struct {
		name               string
		n, quizAv, freeAv  int
		wantQuiz, wantFree int
	}{
		{"balanced", 10, 10, 10, 5, 5},
		{"odd size favors free-form", 5, 5, 5, 2, 3},
		{"quiz shortfall is not backfilled", 10, 2, 20, 2, 8},
		{"free shortfall is not backfilled", 5, 3, 2, 2, 2},
		{"no quiz questions", 6, 0, 6, 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, f := PlanSizes(tt.n, tt.quizAv, tt.freeAv)
			assert.Equal(t, tt.wantQuiz, q)
			assert.Equal(t, tt.wantFree, f)
		})
	}
}

func TestStart_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		quiz, free int
		n          int
	}{
		{"pool below minimum", 2, 2, 4},
		{"size below minimum", 5, 5, 4},
		{"size above enabled", 3, 3, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bankWith(t, tt.quiz, tt.free)
			ex, err := newEngine(b, &fakeRecorder{}).Start(tt.n)
			assert.ErrorIs(t, err, ErrInsufficientQuestions)
			assert.Nil(t, ex)
		})
	}
}

func TestStart_NoBackfill(t *testing.T) {
	b := bankWith(t, 3, 2)
	e := newEngine(b, &fakeRecorder{})

	ex, err := e.Start(5)
	require.NoError(t, err)
	assert.Equal(t, 5, ex.Requested())
	assert.Equal(t, 4, ex.Realized())

	var quiz, free int
	seen := make(map[int]bool)
	for _, q := range ex.Questions() {
		assert.False(t, seen[q.ID], "question %d sampled twice", q.ID)
		seen[q.ID] = true
		if q.IsMultipleChoice() {
			quiz++
		} else {
			free++
		}
	}
	assert.Equal(t, 2, quiz)
	assert.Equal(t, 2, free)
}

func TestStart_SkipsDisabled(t *testing.T) {
	b := bankWith(t, 4, 4)
	b.questions[0].Enabled = false
	b.questions[5].Enabled = false

	ex, err := newEngine(b, &fakeRecorder{}).Start(6)
	require.NoError(t, err)
	for _, q := range ex.Questions() {
		assert.True(t, q.Enabled)
	}
}

func TestExam_ScoreUsesRequestedDenominator(t *testing.T) {
	b := bankWith(t, 3, 2)
	rec := &fakeRecorder{}
	e := newEngine(b, rec)

	ex, err := e.Start(5)
	require.NoError(t, err)

	for !ex.Done() {
		q := ex.Current()
		answer := "yes"
		if q.IsMultipleChoice() {
			answer = "2"
		}
		out, err := ex.Answer(answer)
		require.NoError(t, err)
		assert.True(t, out.Correct)
	}
	assert.Nil(t, ex.Current())

	res, err := e.Finish(context.Background(), ex)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Correct)
	assert.Equal(t, 5, res.Total)
	assert.InDelta(t, 80.0, res.Percentage, 1e-9)
	assert.Equal(t, fixedTime, res.Time)
	assert.Equal(t, ex.ID.String(), res.ID)

	assert.Equal(t, 1, b.saves)
	require.Len(t, rec.results, 1)
	assert.Equal(t, "2024-05-17 14:03:09 | Score: 80.00% | Questions: 4/5", record.FormatResult(rec.results[0]))
}

func TestExam_RecordsTestCountersOnly(t *testing.T) {
	b := bankWith(t, 0, 5)
	e := newEngine(b, &fakeRecorder{})
	ex, err := e.Start(5)
	require.NoError(t, err)

	q := ex.Current()
	weight := q.Weight()
	_, err = ex.Answer("no")
	require.NoError(t, err)

	assert.Equal(t, question.Counter{Shown: 1}, q.Counters(question.ModeTest))
	assert.Equal(t, question.Counter{}, q.Counters(question.ModePractice))
	assert.Equal(t, weight, q.Weight(), "test mode leaves weights alone")
}

func TestExam_EmptyAnswerAndDone(t *testing.T) {
	b := bankWith(t, 0, 5)
	e := newEngine(b, &fakeRecorder{})
	ex, err := e.Start(5)
	require.NoError(t, err)

	_, err = ex.Answer("  ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Equal(t, 1, ex.Position())

	_, err = e.Finish(context.Background(), ex)
	assert.ErrorIs(t, err, ErrNotDone)

	for !ex.Done() {
		_, err := ex.Answer("yes")
		require.NoError(t, err)
	}
	_, err = ex.Answer("yes")
	assert.ErrorIs(t, err, ErrExamDone)
}

func TestFinish_ReportsPersistenceFailures(t *testing.T) {
	b := bankWith(t, 0, 5)
	b.saveErr = errors.New("disk full")
	rec := &fakeRecorder{}
	e := newEngine(b, rec)

	ex, err := e.Start(5)
	require.NoError(t, err)
	for !ex.Done() {
		_, err := ex.Answer("yes")
		require.NoError(t, err)
	}

	res, err := e.Finish(context.Background(), ex)
	require.Error(t, err)
	assert.ErrorIs(t, err, b.saveErr)
	assert.Equal(t, 100.0, res.Percentage)
	assert.Len(t, rec.results, 1, "result is still recorded")
}

func TestAbandon(t *testing.T) {
	b := bankWith(t, 0, 5)
	rec := &fakeRecorder{}
	e := newEngine(b, rec)

	ex, err := e.Start(5)
	require.NoError(t, err)
	require.NoError(t, e.Abandon(context.Background(), ex))
	assert.Equal(t, 0, b.saves)

	_, err = ex.Answer("yes")
	require.NoError(t, err)
	require.NoError(t, e.Abandon(context.Background(), ex))
	assert.Equal(t, 1, b.saves)
	assert.Empty(t, rec.results)
}

func TestResults(t *testing.T) {
	rec := &fakeRecorder{results: []record.Result{{Correct: 3, Total: 5, Percentage: 60}}}
	e := newEngine(bankWith(t, 0, 5), rec)

	res, err := e.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec.results, res)
}
