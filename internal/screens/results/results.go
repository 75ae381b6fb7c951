package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/record"
	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/layout"
	"github.com/abhisek/learntool/internal/ui/theme"
)

// Source loads recorded test results, oldest first.
type Source interface {
	Results(ctx context.Context) ([]record.Result, error)
}

type resultsLoadedMsg struct {
	Results []record.Result
	Err     error
}

// ResultsScreen lists past test scores, newest first.
type ResultsScreen struct {
	source   Source
	results  []record.Result
	selected int
	offset   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a new ResultsScreen.
func New(source Source) *ResultsScreen {
	return &ResultsScreen{source: source}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		res, err := s.source.Results(context.Background())
		if err != nil {
			return resultsLoadedMsg{Err: err}
		}
		newest := make([]record.Result, len(res))
		for i, r := range res {
			newest[len(res)-1-i] = r
		}
		return resultsLoadedMsg{Results: newest}
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, theme.Error, fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return layout.Centered(width, theme.TextDim, "\n\n  Loading results...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No tests taken yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Text, s.summary()))
	b.WriteString("\n\n")

	visible := max(height-6, 3)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+visible {
		s.offset = s.selected - visible + 1
	}
	end := min(s.offset+visible, len(s.results))

	barWidth := min(width-50, 30)
	for i := s.offset; i < end; i++ {
		r := s.results[i]

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %3d/%-3d  ",
			prefix, r.Time.Format(record.TimeLayout), r.Correct, r.Total)

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		bar := components.NewScoreBar("", r.Percentage, false, barWidth)
		row := style.Render(line) + bar.View() +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %6.2f%%", r.Percentage))

		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
		b.WriteString("\n")
	}
	return b.String()
}

// summary describes the number of tests, the average and the best score.
func (s *ResultsScreen) summary() string {
	var sum, best float64
	for _, r := range s.results {
		sum += r.Percentage
		best = max(best, r.Percentage)
	}
	return fmt.Sprintf("%d tests  average %.2f%%  best %.2f%%",
		len(s.results), sum/float64(len(s.results)), best)
}
