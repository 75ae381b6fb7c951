package question

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFreeForm_Defaults(t *testing.T) {
	q, err := NewFreeForm("  Capital of France? ", " Paris ")
	require.NoError(t, err)

	assert.Equal(t, KindFreeForm, q.Kind())
	assert.Equal(t, "Capital of France?", q.Text)
	assert.Equal(t, "Paris", q.Answer())
	assert.True(t, q.Enabled)
	assert.Equal(t, DefaultWeight, q.Weight())
	assert.Nil(t, q.Options())
	assert.Equal(t, -1, q.CorrectIndex())
	assert.Equal(t, Counter{}, q.Counters(ModePractice))
	assert.Equal(t, Counter{}, q.Counters(ModeTest))
}

func TestNewMultipleChoice_AnswerFromCorrectOption(t *testing.T) {
	q, err := NewMultipleChoice("Pick", []string{"A", " B ", "C"}, 1)
	require.NoError(t, err)

	assert.Equal(t, KindMultipleChoice, q.Kind())
	assert.Equal(t, []string{"A", "B", "C"}, q.Options())
	assert.Equal(t, 1, q.CorrectIndex())
	assert.Equal(t, "B", q.Answer())
}

func TestOptions_ReturnsCopy(t *testing.T) {
	q, err := NewMultipleChoice("Pick", []string{"A", "B"}, 0)
	require.NoError(t, err)

	opts := q.Options()
	opts[0] = "changed"
	assert.Equal(t, "A", q.Options()[0])
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Question, error)
		field string
	}{
		{"empty text", func() (*Question, error) { return NewFreeForm("  ", "a") }, "text"},
		{"empty answer", func() (*Question, error) { return NewFreeForm("q", "") }, "answer"},
		{"pipe in text", func() (*Question, error) { return NewFreeForm("a|b", "a") }, "text"},
		{"pipe in answer", func() (*Question, error) { return NewFreeForm("q", "a|b") }, "answer"},
		{"newline in text", func() (*Question, error) { return NewFreeForm("a\nb", "a") }, "text"},
		{"one option", func() (*Question, error) { return NewMultipleChoice("q", []string{"A"}, 0) }, "options"},
		{"no options", func() (*Question, error) { return NewMultipleChoice("q", nil, 0) }, "options"},
		{"no correct option", func() (*Question, error) { return NewMultipleChoice("q", []string{"A", "B"}, -1) }, "correct option"},
		{"correct out of range", func() (*Question, error) { return NewMultipleChoice("q", []string{"A", "B"}, 2) }, "correct option"},
		{"empty option", func() (*Question, error) { return NewMultipleChoice("q", []string{"A", " "}, 0) }, "option 2"},
		{"comma in option", func() (*Question, error) { return NewMultipleChoice("q", []string{"A,B", "C"}, 0) }, "option 1"},
		{"duplicate option", func() (*Question, error) { return NewMultipleChoice("q", []string{"A", "A"}, 0) }, "option 2"},
		{"duplicate option ignoring case", func() (*Question, error) { return NewMultipleChoice("q", []string{"Paris", "paris"}, 0) }, "option 2"},
		{"duplicate option ignoring spaces", func() (*Question, error) { return NewMultipleChoice("q", []string{"Rome", "Oslo", " rome "}, 1) }, "option 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.build()
			require.Error(t, err)
			assert.Nil(t, q)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRecord_KeepsCorrectAtMostShown(t *testing.T) {
	q, err := NewFreeForm("q", "a")
	require.NoError(t, err)

	q.Record(ModePractice, true)
	q.Record(ModePractice, false)
	q.Record(ModeTest, true)

	assert.Equal(t, Counter{Shown: 2, Correct: 1}, q.Counters(ModePractice))
	assert.Equal(t, Counter{Shown: 1, Correct: 1}, q.Counters(ModeTest))
	assert.Equal(t, Counter{Shown: 3, Correct: 2}, q.Totals())
	assert.InDelta(t, 50.0, q.Counters(ModePractice).Accuracy(), 1e-9)
}

func TestSetCounters(t *testing.T) {
	q, err := NewFreeForm("q", "a")
	require.NoError(t, err)

	require.NoError(t, q.SetCounters(ModeTest, Counter{Shown: 4, Correct: 3}))
	assert.Equal(t, Counter{Shown: 4, Correct: 3}, q.Counters(ModeTest))

	err = q.SetCounters(ModePractice, Counter{Shown: 1, Correct: 2})
	assert.ErrorIs(t, err, ErrValidation)
	err = q.SetCounters(ModePractice, Counter{Shown: -1})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, Counter{}, q.Counters(ModePractice))
}

func TestSetWeight_RejectsNonPositive(t *testing.T) {
	q, err := NewFreeForm("q", "a")
	require.NoError(t, err)

	q.SetWeight(2.5)
	assert.Equal(t, 2.5, q.Weight())

	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		q.SetWeight(w)
		assert.Equal(t, DefaultWeight, q.Weight(), "weight %v", w)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	q, err := NewMultipleChoice("Pick", []string{"A", "B"}, 0)
	require.NoError(t, err)
	q.ID = 7

	c := q.Clone()
	c.Record(ModePractice, true)
	c.SetWeight(3)
	c.Enabled = false

	assert.Equal(t, 7, c.ID)
	assert.Equal(t, Counter{}, q.Counters(ModePractice))
	assert.Equal(t, DefaultWeight, q.Weight())
	assert.True(t, q.Enabled)
}

func TestCounterAccuracy_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Counter{}.Accuracy())
}
