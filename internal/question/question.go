package question

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWeight is the selection weight of a question that has never been
// reinforced.
const DefaultWeight = 1.0

// Kind describes how a question is answered. It is fixed at construction.
type Kind int

const (
	KindFreeForm       Kind = iota // learner types the answer
	KindMultipleChoice             // learner picks one of Options
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case KindFreeForm:
		return "free-form"
	case KindMultipleChoice:
		return "multiple-choice"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mode is the context in which a question was answered.
type Mode int

const (
	ModePractice Mode = iota
	ModeTest
)

// String returns the mode's display name.
func (m Mode) String() string {
	if m == ModeTest {
		return "test"
	}
	return "practice"
}

// Counter tracks how often a question was shown and answered correctly.
type Counter struct {
	Shown   int
	Correct int
}

// Accuracy returns the percentage of correct answers (0 when never shown).
func (c Counter) Accuracy() float64 {
	if c.Shown == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Shown) * 100
}

// Add returns the element-wise sum of two counters.
func (c Counter) Add(o Counter) Counter {
	return Counter{Shown: c.Shown + o.Shown, Correct: c.Correct + o.Correct}
}

func (c Counter) valid() bool {
	return c.Shown >= 0 && c.Correct >= 0 && c.Correct <= c.Shown
}

// choice is the multiple-choice payload. It is nil for free-form questions.
type choice struct {
	options []string
	correct int
}

// Question is a single free-form or multiple-choice question together with
// its per-mode counters and adaptive selection weight.
type Question struct {
	// ID is assigned by the question bank; zero until added.
	ID int

	// Text is the prompt shown to the learner.
	Text string

	// Enabled questions take part in practice and test sampling.
	Enabled bool

	kind     Kind
	answer   string
	choice   *choice
	weight   float64
	practice Counter
	test     Counter
}

// NewFreeForm creates a validated free-form question.
func NewFreeForm(text, answer string) (*Question, error) {
	q := &Question{
		Text:    strings.TrimSpace(text),
		Enabled: true,
		kind:    KindFreeForm,
		answer:  strings.TrimSpace(answer),
		weight:  DefaultWeight,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// NewMultipleChoice creates a validated multiple-choice question. The option
// at correctIndex (0-based) becomes the canonical answer.
func NewMultipleChoice(text string, options []string, correctIndex int) (*Question, error) {
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = strings.TrimSpace(o)
	}
	q := &Question{
		Text:    strings.TrimSpace(text),
		Enabled: true,
		kind:    KindMultipleChoice,
		choice:  &choice{options: opts, correct: correctIndex},
		weight:  DefaultWeight,
	}
	if correctIndex >= 0 && correctIndex < len(opts) {
		q.answer = opts[correctIndex]
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Kind returns the question kind.
func (q *Question) Kind() Kind { return q.kind }

// IsMultipleChoice reports whether the question is answered by picking an option.
func (q *Question) IsMultipleChoice() bool { return q.kind == KindMultipleChoice }

// Answer returns the canonical correct answer.
func (q *Question) Answer() string { return q.answer }

// Options returns a copy of the multiple-choice options (nil for free-form).
func (q *Question) Options() []string {
	if q.choice == nil {
		return nil
	}
	out := make([]string, len(q.choice.options))
	copy(out, q.choice.options)
	return out
}

// CorrectIndex returns the 0-based index of the correct option, or -1 for
// free-form questions.
func (q *Question) CorrectIndex() int {
	if q.choice == nil {
		return -1
	}
	return q.choice.correct
}

// Weight returns the adaptive selection weight. It is always positive.
func (q *Question) Weight() float64 { return q.weight }

// SetWeight replaces the selection weight. Non-positive or non-finite values
// reset the weight to DefaultWeight.
func (q *Question) SetWeight(w float64) {
	if !(w > 0) || math.IsInf(w, 0) {
		w = DefaultWeight
	}
	q.weight = w
}

// Counters returns the counters for the given mode.
func (q *Question) Counters(m Mode) Counter {
	if m == ModeTest {
		return q.test
	}
	return q.practice
}

// Totals returns practice and test counters combined.
func (q *Question) Totals() Counter {
	return q.practice.Add(q.test)
}

// SetCounters replaces the counters for a mode. It rejects negative counts
// and correct counts above the shown count.
func (q *Question) SetCounters(m Mode, c Counter) error {
	if !c.valid() {
		return &ValidationError{
			Field:  m.String() + " counters",
			Reason: fmt.Sprintf("correct %d / shown %d out of range", c.Correct, c.Shown),
		}
	}
	if m == ModeTest {
		q.test = c
	} else {
		q.practice = c
	}
	return nil
}

// Record counts one answer given in mode m.
func (q *Question) Record(m Mode, correct bool) {
	c := &q.practice
	if m == ModeTest {
		c = &q.test
	}
	c.Shown++
	if correct {
		c.Correct++
	}
}

// Clone returns a deep copy of q.
func (q *Question) Clone() *Question {
	c := *q
	if q.choice != nil {
		c.choice = &choice{options: q.Options(), correct: q.choice.correct}
	}
	return &c
}
