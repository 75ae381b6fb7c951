package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntool/internal/ui/theme"
)

// MultiChoice is a numbered option picker. Options are chosen with the
// arrow keys and Enter, or directly by typing their number.
type MultiChoice struct {
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int

	// CorrectIndex is revealed after submission; -1 hides it.
	CorrectIndex int
}

// NewMultiChoice creates a picker over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		ChosenIndex:  -1,
		CorrectIndex: -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	}

	return m, nil
}

// Answer returns the chosen option as its 1-based number, or "" before
// submission.
func (m MultiChoice) Answer() string {
	if !m.Submitted || m.ChosenIndex < 0 {
		return ""
	}
	return strconv.Itoa(m.ChosenIndex + 1)
}

// Reveal marks the correct option for the feedback view.
func (m *MultiChoice) Reveal(correctIndex int) {
	m.CorrectIndex = correctIndex
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			b.WriteString(theme.Correct.Render(line))
		case m.Submitted && i == m.ChosenIndex:
			b.WriteString(theme.Incorrect.Render(line))
		case m.Submitted:
			b.WriteString(theme.Dim.Render(line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
