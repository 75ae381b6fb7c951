package practice

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/ui/layout"
	"github.com/abhisek/learntool/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}

	switch s.phase {
	case phaseStarting:
		return layout.Centered(width, theme.TextDim, "\n\n\n  Preparing your session...")
	case phaseSummary:
		return s.renderSummary(width)
	case phaseFeedback:
		return s.renderQuestion(width) + s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

// renderQuestion renders the round header, the question and its input.
func (s *PracticeScreen) renderQuestion(width int) string {
	r := s.round
	if r == nil {
		return ""
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Round %d", r.Number))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("weight %.2f  %s %d",
			r.Question.Weight(),
			lipgloss.NewStyle().Foreground(theme.Success).Render("*"),
			s.outcome.Score,
		))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(layout.CenteredBold(width, theme.Text, r.Question.Text))
	b.WriteString("\n\n")

	if r.Question.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	} else if s.phase == phaseAnswering {
		b.WriteString(layout.Centered(width, theme.Text, "Answer: "+s.input.View()))
	} else {
		b.WriteString(layout.Centered(width, theme.Text, "Answer: "+s.outcome.Input))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Accent, s.notice))
	}
	return b.String()
}

func (s *PracticeScreen) renderFeedback(width int) string {
	o := s.outcome

	var b strings.Builder
	b.WriteString("\n\n")
	if o.Correct {
		b.WriteString(layout.CenteredBold(width, theme.Success, "Correct!"))
	} else {
		b.WriteString(layout.CenteredBold(width, theme.Error, "Not quite"))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.TextDim, "Correct answer: "+o.Expected))
	}
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.TextDim,
		fmt.Sprintf("Weight %.2f -> %.2f", o.WeightBefore, o.WeightAfter)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.TextDim, "Press any key to continue..."))
	return b.String()
}

func (s *PracticeScreen) renderSummary(width int) string {
	sum := s.summary

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.CenteredBold(width, theme.Primary, "Practice finished"))
	b.WriteString("\n\n")

	if sum.Rounds == 0 {
		b.WriteString(layout.Centered(width, theme.TextDim, "No questions answered."))
	} else {
		b.WriteString(layout.Centered(width, theme.Text,
			fmt.Sprintf("Score: %d/%d (%.2f%%)", sum.Correct, sum.Rounds, sum.Accuracy())))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.TextDim,
			fmt.Sprintf("Time: %s", sum.Duration.Round(time.Second))))
	}

	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.TextDim, "Press Enter to return home."))
	return b.String()
}

func renderError(width int, errMsg string) string {
	return layout.Centered(width, theme.Error,
		fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", errMsg))
}
