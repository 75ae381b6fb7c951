// Package stats keeps the statistics record consistent with the question
// bank and builds the per-question report shown to the learner.
package stats

import (
	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
)

// ReconcileReport summarizes how a statistics record was applied.
type ReconcileReport struct {
	Applied int

	// Orphaned lists ids of entries with no matching question. They are
	// dropped and disappear on the next save.
	Orphaned []int

	// Invalid lists ids of entries whose counters were rejected.
	Invalid []int
}

// Reconcile copies counters from entries onto the questions with the same
// id. The question record stays authoritative for text and enabled state.
// When an id appears more than once the last entry wins.
func Reconcile(qs []*question.Question, entries []record.Stat) ReconcileReport {
	byID := make(map[int]*question.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	var rep ReconcileReport
	for _, e := range entries {
		q, ok := byID[e.ID]
		if !ok {
			rep.Orphaned = append(rep.Orphaned, e.ID)
			continue
		}
		prevTest := q.Counters(question.ModeTest)
		if err := q.SetCounters(question.ModeTest, e.Test); err != nil {
			rep.Invalid = append(rep.Invalid, e.ID)
			continue
		}
		if err := q.SetCounters(question.ModePractice, e.Practice); err != nil {
			_ = q.SetCounters(question.ModeTest, prevTest)
			rep.Invalid = append(rep.Invalid, e.ID)
			continue
		}
		rep.Applied++
	}
	return rep
}

// Entries returns exactly one statistics entry per question, in question
// order.
func Entries(qs []*question.Question) []record.Stat {
	out := make([]record.Stat, len(qs))
	for i, q := range qs {
		out[i] = record.StatOf(q)
	}
	return out
}
