package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	ex "github.com/abhisek/learntool/internal/exam"
	prac "github.com/abhisek/learntool/internal/practice"
	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	examscreen "github.com/abhisek/learntool/internal/screens/exam"
	practicescreen "github.com/abhisek/learntool/internal/screens/practice"
	"github.com/abhisek/learntool/internal/screens/results"
	statsscreen "github.com/abhisek/learntool/internal/screens/stats"
	"github.com/abhisek/learntool/internal/stats"
	"github.com/abhisek/learntool/internal/ui/components"
)

// Bank is the question bank as seen by the home screen and the screens it
// opens.
type Bank interface {
	All() []*question.Question
	Enable(ctx context.Context, id int) error
	Disable(ctx context.Context, id int) error
}

// Deps wires the home screen to the engines behind each menu entry.
type Deps struct {
	Bank Bank

	// NewPractice returns a fresh engine for every practice session.
	NewPractice func() *prac.Engine
	PracticeMin int

	Exam     *ex.Engine
	TestSize int
}

const (
	itemPractice = iota
	itemTest
	itemStats
	itemResults
	itemExit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	totals stats.Totals
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		itemPractice: {Label: "PRACTICE", Action: func() tea.Cmd {
			return router.Push(practicescreen.New(deps.NewPractice()))
		}},
		itemTest: {Label: "TEST", Action: func() tea.Cmd {
			return router.Push(examscreen.New(deps.Exam, deps.TestSize))
		}},
		itemStats: {Label: "STATISTICS", Action: func() tea.Cmd {
			return router.Push(statsscreen.New(deps.Bank))
		}},
		itemResults: {Label: "RESULTS", Action: func() tea.Cmd {
			return router.Push(results.New(deps.Exam))
		}},
		itemExit: {Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// refresh recomputes the bank summary and the per-mode hints.
func (h *HomeScreen) refresh() {
	h.totals = stats.Summarize(h.deps.Bank.All())

	minPractice, minTest := prac.DefaultMinQuestions, ex.DefaultMinQuestions
	if h.deps.PracticeMin > 0 {
		minPractice = h.deps.PracticeMin
	}
	if h.deps.Exam != nil {
		minTest = h.deps.Exam.MinQuestions()
	}
	h.menu.Items[itemPractice].Hint = needHint(h.totals.Enabled, minPractice)
	h.menu.Items[itemTest].Hint = needHint(h.totals.Enabled, minTest)
}

func needHint(enabled, need int) string {
	if enabled >= need {
		return ""
	}
	return fmt.Sprintf("needs %d enabled", need)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes counts after practice, tests or toggling questions.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 70
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderBankBar(h.totals, cw),
		renderMenu(h.menu, cw),
	}
	return centerBlock(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
