// Package selector draws practice questions at random, proportionally to
// their adaptive weights, and adjusts those weights after each answer.
package selector

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/learntool/internal/question"
)

// Weight adjustment constants.
const (
	// MinWeight is the floor applied after a correct answer.
	MinWeight = 0.01

	// CorrectFactor scales the weight down after a correct answer.
	CorrectFactor = 0.8

	// IncorrectFactor scales the weight up after an incorrect answer.
	IncorrectFactor = 1.2
)

// ErrEmptyPool is returned when no enabled candidate is available.
var ErrEmptyPool = errors.New("no enabled questions to draw from")

// Selector performs weighted random draws. It is not safe for concurrent use.
type Selector struct {
	rng *rand.Rand
}

// New returns a Selector using src. A nil src uses a randomly seeded PCG.
func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{rng: rand.New(src)}
}

// Draw returns one enabled candidate with probability proportional to its
// weight. Disabled candidates are never returned.
func (s *Selector) Draw(candidates []*question.Question) (*question.Question, error) {
	var total float64
	for _, q := range candidates {
		total += effectiveWeight(q)
	}
	if total <= 0 {
		return nil, ErrEmptyPool
	}
	return pick(candidates, s.rng.Float64()*total), nil
}

// pick walks the cumulative weights and returns the first candidate whose
// running sum reaches target. Rounding can leave target just above the
// final sum; the last enabled candidate is returned then.
func pick(candidates []*question.Question, target float64) *question.Question {
	var (
		cum  float64
		last *question.Question
	)
	for _, q := range candidates {
		w := effectiveWeight(q)
		if w == 0 {
			continue
		}
		cum += w
		last = q
		if cum >= target {
			return q
		}
	}
	return last
}

func effectiveWeight(q *question.Question) float64 {
	if q == nil || !q.Enabled {
		return 0
	}
	return q.Weight()
}

// Reinforce adjusts q's weight after an answer: correct answers shrink it
// toward MinWeight, incorrect ones grow it without bound.
func Reinforce(q *question.Question, correct bool) {
	w := q.Weight()
	if !(w > 0) {
		w = question.DefaultWeight
	}
	if correct {
		w = max(w*CorrectFactor, MinWeight)
	} else {
		w *= IncorrectFactor
	}
	q.SetWeight(w)
}
