package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	ex "github.com/abhisek/learntool/internal/exam"
	prac "github.com/abhisek/learntool/internal/practice"
	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/record"
	"github.com/abhisek/learntool/internal/router"
	practicescreen "github.com/abhisek/learntool/internal/screens/practice"
	"github.com/abhisek/learntool/internal/screens/results"
	"github.com/abhisek/learntool/internal/selector"
)

type mockBank struct {
	questions []*question.Question
}

func (m *mockBank) All() []*question.Question { return m.questions }

func (m *mockBank) Enabled() []*question.Question {
	var out []*question.Question
	for _, q := range m.questions {
		if q.Enabled {
			out = append(out, q)
		}
	}
	return out
}

func (m *mockBank) Enable(context.Context, int) error  { return nil }
func (m *mockBank) Disable(context.Context, int) error { return nil }
func (m *mockBank) Save(context.Context) error         { return nil }

type mockRecorder struct{}

func (mockRecorder) AppendResult(context.Context, record.Result) error { return nil }
func (mockRecorder) Results(context.Context) ([]record.Result, error)  { return nil, nil }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testHome(t *testing.T, n int) (*HomeScreen, *mockBank) {
	t.Helper()
	b := &mockBank{}
	for range n {
		q, err := question.NewFreeForm("q", "a")
		if err != nil {
			t.Fatal(err)
		}
		b.questions = append(b.questions, q)
	}
	h := New(Deps{
		Bank:        b,
		NewPractice: func() *prac.Engine { return prac.New(b, selector.New(nil)) },
		Exam:        ex.New(b, mockRecorder{}),
		TestSize:    5,
	})
	return h, b
}

func TestHomeScreen_Title(t *testing.T) {
	h, _ := testHome(t, 0)
	if h.Title() != "Home" {
		t.Errorf("expected title 'Home', got %q", h.Title())
	}
}

func TestHomeScreen_HintsForSmallBank(t *testing.T) {
	h, _ := testHome(t, 3)

	if h.menu.Items[itemPractice].Hint != "needs 5 enabled" {
		t.Errorf("unexpected practice hint %q", h.menu.Items[itemPractice].Hint)
	}
	if h.menu.Items[itemTest].Hint == "" {
		t.Error("expected a test hint")
	}
	if !strings.Contains(h.View(100, 30), "needs 5 enabled") {
		t.Error("expected hint in view")
	}
}

func TestHomeScreen_ResumeRefreshes(t *testing.T) {
	h, b := testHome(t, 3)

	for range 2 {
		q, _ := question.NewFreeForm("q", "a")
		b.questions = append(b.questions, q)
	}
	h.Resume()

	if h.totals.Questions != 5 {
		t.Errorf("expected 5 questions, got %d", h.totals.Questions)
	}
	if h.menu.Items[itemPractice].Hint != "" {
		t.Errorf("expected no hint once 5 are enabled, got %q", h.menu.Items[itemPractice].Hint)
	}
}

func TestHomeScreen_OpensPractice(t *testing.T) {
	h, _ := testHome(t, 5)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*practicescreen.PracticeScreen); !ok {
		t.Errorf("expected the practice screen, got %T", push.Screen)
	}
}

func TestHomeScreen_OpensResults(t *testing.T) {
	h, _ := testHome(t, 5)

	for range itemResults {
		h.Update(specialKey(tea.KeyDown))
	}
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("expected the results screen, got %T", push.Screen)
	}
}

func TestHomeScreen_View(t *testing.T) {
	h, _ := testHome(t, 7)
	view := h.View(100, 30)
	for _, want := range []string{"QUESTIONS", "PRACTICE", "STATISTICS", "EXIT"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
