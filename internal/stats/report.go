package stats

import (
	"github.com/abhisek/learntool/internal/question"
)

// Row is one line of the statistics view.
type Row struct {
	ID       int
	Enabled  bool
	Kind     question.Kind
	Text     string
	Practice question.Counter
	Test     question.Counter
	Weight   float64
}

// Total returns practice and test counters combined.
func (r Row) Total() question.Counter {
	return r.Practice.Add(r.Test)
}

// Rows builds the statistics view in question order.
func Rows(qs []*question.Question) []Row {
	rows := make([]Row, len(qs))
	for i, q := range qs {
		rows[i] = Row{
			ID:       q.ID,
			Enabled:  q.Enabled,
			Kind:     q.Kind(),
			Text:     q.Text,
			Practice: q.Counters(question.ModePractice),
			Test:     q.Counters(question.ModeTest),
			Weight:   q.Weight(),
		}
	}
	return rows
}

// Totals aggregates the whole bank.
type Totals struct {
	Questions int
	Enabled   int
	FreeForm  int
	Choice    int
	Practice  question.Counter
	Test      question.Counter
}

// Summarize aggregates counters across all questions.
func Summarize(qs []*question.Question) Totals {
	var t Totals
	for _, q := range qs {
		t.Questions++
		if q.Enabled {
			t.Enabled++
		}
		if q.IsMultipleChoice() {
			t.Choice++
		} else {
			t.FreeForm++
		}
		t.Practice = t.Practice.Add(q.Counters(question.ModePractice))
		t.Test = t.Test.Add(q.Counters(question.ModeTest))
	}
	return t
}
