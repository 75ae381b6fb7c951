package stats

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/router"
)

type mockBank struct {
	questions []*question.Question
	err       error
	toggles   int
}

func (m *mockBank) All() []*question.Question { return m.questions }

func (m *mockBank) Enable(_ context.Context, id int) error { return m.set(id, true) }

func (m *mockBank) Disable(_ context.Context, id int) error { return m.set(id, false) }

func (m *mockBank) set(id int, enabled bool) error {
	if m.err != nil {
		return m.err
	}
	for _, q := range m.questions {
		if q.ID == id {
			q.Enabled = enabled
			m.toggles++
			return nil
		}
	}
	return errors.New("not found")
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBank(t *testing.T) *mockBank {
	t.Helper()
	free, err := question.NewFreeForm("Capital of France?", "Paris")
	if err != nil {
		t.Fatal(err)
	}
	free.ID = 1
	free.Record(question.ModePractice, true)
	free.Record(question.ModePractice, false)

	choice, err := question.NewMultipleChoice("2+2?", []string{"3", "4"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	choice.ID = 2
	choice.Record(question.ModeTest, true)

	return &mockBank{questions: []*question.Question{free, choice}}
}

func TestStatsScreen_Title(t *testing.T) {
	s := New(&mockBank{})
	if s.Title() != "Statistics" {
		t.Errorf("expected title 'Statistics', got %q", s.Title())
	}
}

func TestStatsScreen_EmptyBank(t *testing.T) {
	s := New(&mockBank{})
	if !strings.Contains(s.View(80, 24), "No questions yet") {
		t.Error("expected empty-bank message")
	}
}

func TestStatsScreen_View(t *testing.T) {
	s := New(testBank(t))
	view := s.View(100, 30)

	for _, want := range []string{"2 questions (2 enabled)", "Capital of France?", "1/2", "choice"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestStatsScreen_Navigate(t *testing.T) {
	s := New(testBank(t))

	s.Update(specialKey(tea.KeyDown))
	if s.selected != 1 {
		t.Errorf("expected selected 1, got %d", s.selected)
	}
	s.Update(specialKey(tea.KeyDown))
	if s.selected != 1 {
		t.Errorf("expected selection to stop at the last row, got %d", s.selected)
	}
	s.Update(specialKey(tea.KeyUp))
	if s.selected != 0 {
		t.Errorf("expected selected 0, got %d", s.selected)
	}
}

func TestStatsScreen_Toggle(t *testing.T) {
	b := testBank(t)
	s := New(b)

	s.Update(keyPress('e'))
	if b.questions[0].Enabled {
		t.Fatal("expected question 1 to be disabled")
	}
	if s.rows[0].Enabled {
		t.Error("expected rows to be refreshed")
	}
	if s.totals.Enabled != 1 {
		t.Errorf("expected 1 enabled, got %d", s.totals.Enabled)
	}
	if !strings.Contains(s.notice, "disabled") {
		t.Errorf("unexpected notice %q", s.notice)
	}

	s.Update(keyPress('e'))
	if !b.questions[0].Enabled {
		t.Error("expected question 1 to be enabled again")
	}
}

func TestStatsScreen_ToggleError(t *testing.T) {
	b := testBank(t)
	b.err = errors.New("disk full")
	s := New(b)

	s.Update(keyPress('e'))
	if !b.questions[0].Enabled {
		t.Error("expected question to stay enabled")
	}
	if !strings.Contains(s.notice, "disk full") {
		t.Errorf("expected error notice, got %q", s.notice)
	}
}

func TestStatsScreen_Scrolls(t *testing.T) {
	b := &mockBank{}
	for i := range 30 {
		q, err := question.NewFreeForm("q", "a")
		if err != nil {
			t.Fatal(err)
		}
		q.ID = i + 1
		b.questions = append(b.questions, q)
	}
	s := New(b)

	for range 29 {
		s.Update(specialKey(tea.KeyDown))
	}
	s.View(100, 20)
	if s.offset == 0 {
		t.Error("expected the table to scroll")
	}
	if s.selected < s.offset {
		t.Error("expected the cursor to stay visible")
	}
}

func TestStatsScreen_Esc(t *testing.T) {
	s := New(&mockBank{})
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
