package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	st "github.com/abhisek/learntool/internal/stats"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/layout"
	"github.com/abhisek/learntool/internal/ui/theme"
)

// Bank is what the statistics screen reads and toggles.
type Bank interface {
	All() []*question.Question
	Enable(ctx context.Context, id int) error
	Disable(ctx context.Context, id int) error
}

// StatsScreen lists per-question counters and lets the learner enable or
// disable questions.
type StatsScreen struct {
	bank     Bank
	rows     []st.Row
	totals   st.Totals
	selected int
	offset   int
	notice   string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(bank Bank) *StatsScreen {
	s := &StatsScreen{bank: bank}
	s.refresh()
	return s
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Statistics"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "e", Description: "Enable/Disable"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) refresh() {
	qs := s.bank.All()
	s.rows = st.Rows(qs)
	s.totals = st.Summarize(qs)
	if s.selected >= len(s.rows) {
		s.selected = max(len(s.rows)-1, 0)
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc", "q":
		return s, router.Pop
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.rows)-1 {
			s.selected++
		}
	case "e", "space":
		s.toggle()
	}
	return s, nil
}

// toggle flips the selected question's enabled flag and persists it.
func (s *StatsScreen) toggle() {
	if len(s.rows) == 0 {
		return
	}
	row := s.rows[s.selected]

	var err error
	if row.Enabled {
		err = s.bank.Disable(context.Background(), row.ID)
	} else {
		err = s.bank.Enable(context.Background(), row.ID)
	}
	if err != nil {
		s.notice = fmt.Sprintf("Question %d: %v", row.ID, err)
		return
	}

	state := "enabled"
	if row.Enabled {
		state = "disabled"
	}
	s.notice = fmt.Sprintf("Question %d %s.", row.ID, state)
	s.refresh()
}

func (s *StatsScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No questions yet. Add some with 'learntool add'.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderTotals(width))
	b.WriteString("\n\n")

	tableWidth := min(width-4, 100)
	textWidth := max(tableWidth-51, 5)
	header := fmt.Sprintf("  %4s  %-3s  %-6s  %-9s  %-9s  %6s  %s",
		"ID", "On", "Kind", "Practice", "Test", "Weight", "Question")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Width(tableWidth).Render(header)))
	b.WriteString("\n")

	// Keep the cursor inside the visible window.
	visible := max(height-8, 3)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+visible {
		s.offset = s.selected - visible + 1
	}
	end := min(s.offset+visible, len(s.rows))

	for i := s.offset; i < end; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.renderRow(i, tableWidth, textWidth)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Accent, s.notice))
	}
	return b.String()
}

func (s *StatsScreen) renderRow(i, tableWidth, textWidth int) string {
	r := s.rows[i]

	on := "yes"
	if !r.Enabled {
		on = "no"
	}
	kind := "free"
	if r.Kind == question.KindMultipleChoice {
		kind = "choice"
	}

	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}
	line := fmt.Sprintf("%s%4d  %-3s  %-6s  %-9s  %-9s  %6.2f  %s",
		prefix, r.ID, on, kind,
		counterCell(r.Practice), counterCell(r.Test), r.Weight,
		layout.Truncate(r.Text, textWidth))

	style := theme.Unselected
	switch {
	case i == s.selected:
		style = theme.Selected
	case !r.Enabled:
		style = theme.Disabled
	}
	return style.Width(tableWidth).Render(line)
}

func (s *StatsScreen) renderTotals(width int) string {
	t := s.totals
	summary := fmt.Sprintf("%d questions (%d enabled): %d free-form, %d multiple choice",
		t.Questions, t.Enabled, t.FreeForm, t.Choice)

	var b strings.Builder
	b.WriteString(layout.Centered(width, theme.Text, summary))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	practice := components.NewScoreBar("Practice", t.Practice.Accuracy(), true, barWidth)
	test := components.NewScoreBar("Test    ", t.Test.Accuracy(), true, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, practice.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, test.View()))
	return b.String()
}

// counterCell renders a counter as "correct/shown".
func counterCell(c question.Counter) string {
	return fmt.Sprintf("%d/%d", c.Correct, c.Shown)
}
