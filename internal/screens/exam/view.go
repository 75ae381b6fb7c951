package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/question"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/layout"
	"github.com/abhisek/learntool/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, theme.Error,
			fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", s.errMsg))
	}
	if s.confirmAbandon {
		return renderAbandonConfirm(width)
	}

	switch s.phase {
	case phaseSetup:
		return s.renderSetup(width)
	case phaseFeedback:
		return s.renderQuestion(width, s.outcome.Question) + s.renderFeedback(width)
	case phaseScore:
		return s.renderScore(width)
	}
	return s.renderQuestion(width, s.exam.Current())
}

func (s *ExamScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.CenteredBold(width, theme.Primary, "New test"))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.TextDim,
		fmt.Sprintf("How many questions? (at least %d)", s.engine.MinQuestions())))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Text, "Questions: "+s.sizeInput.View()))
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Error, s.notice))
	}
	return b.String()
}

// renderQuestion renders the progress line, the question and its input.
func (s *ExamScreen) renderQuestion(width int, q *question.Question) string {
	if q == nil {
		return ""
	}

	answered := s.exam.Position() - 1
	var b strings.Builder

	pos := answered + 1
	if s.phase == phaseFeedback {
		pos = answered
	}
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", pos, s.exam.Realized()))
	bar := components.NewStepBar(answered, s.exam.Realized(), 20)

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(bar.View()) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + bar.View()
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(layout.CenteredBold(width, theme.Text, q.Text))
	b.WriteString("\n\n")

	switch {
	case q.IsMultipleChoice():
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	case s.phase == phaseAnswering:
		b.WriteString(layout.Centered(width, theme.Text, "Answer: "+s.input.View()))
	default:
		b.WriteString(layout.Centered(width, theme.Text, "Answer: "+s.outcome.Input))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Accent, s.notice))
	}
	return b.String()
}

func (s *ExamScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	if s.outcome.Correct {
		b.WriteString(layout.CenteredBold(width, theme.Success, "Correct!"))
	} else {
		b.WriteString(layout.CenteredBold(width, theme.Error, "Not quite"))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.TextDim, "Correct answer: "+s.outcome.Expected))
	}
	b.WriteString("\n\n")

	next := "Press any key for the next question..."
	if s.exam.Done() {
		next = "Press any key to see your score..."
	}
	b.WriteString(layout.Centered(width, theme.TextDim, next))
	return b.String()
}

func (s *ExamScreen) renderScore(width int) string {
	r := s.result

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.CenteredBold(width, theme.Primary, "Test complete"))
	b.WriteString("\n\n")

	color := theme.Success
	if r.Percentage < 50 {
		color = theme.Error
	}
	b.WriteString(layout.CenteredBold(width, color, fmt.Sprintf("Score: %.2f%%", r.Percentage)))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Text,
		fmt.Sprintf("%d correct out of %d", r.Correct, r.Total)))

	if s.exam.Realized() < s.exam.Requested() {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Accent,
			fmt.Sprintf("Only %d questions could be drawn; missing ones count as incorrect.", s.exam.Realized())))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Error, s.notice))
	}

	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.TextDim, "Press Enter to return home."))
	return b.String()
}

func renderAbandonConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.CenteredBold(width, theme.Text, "Abandon this test?"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.TextDim, "No score will be recorded."))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Error, "[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Primary, "[N] No, keep going"))
	return b.String()
}
