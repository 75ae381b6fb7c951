package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/ui/theme"
)

// Score bands used to colour accuracy bars.
const (
	GoodScore = 80.0
	FairScore = 50.0
)

// ProgressBar is a horizontal bar filled to Fraction (0..1). Label is drawn
// before the bar and Suffix after it.
type ProgressBar struct {
	Label    string
	Fraction float64
	Suffix   string
	Fill     color.Color
	Width    int
}

// NewStepBar shows how far through a test the learner is.
func NewStepBar(done, total, width int) ProgressBar {
	var f float64
	if total > 0 {
		f = float64(done) / float64(total)
	}
	return ProgressBar{Fraction: f, Fill: theme.Secondary, Width: width}
}

// NewScoreBar shows an accuracy or test score given in percent, coloured
// by how good it is.
func NewScoreBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	p := ProgressBar{
		Label:    label,
		Fraction: percent / 100,
		Fill:     ScoreColor(percent),
		Width:    width,
	}
	if showPercent {
		p.Suffix = fmt.Sprintf("%3.0f%%", min(max(percent, 0), 100))
	}
	return p
}

// ScoreColor maps a percentage to green, amber or red.
func ScoreColor(percent float64) color.Color {
	switch {
	case percent >= GoodScore:
		return theme.Success
	case percent >= FairScore:
		return theme.Accent
	}
	return theme.Error
}

// View renders the bar within Width cells.
func (p ProgressBar) View() string {
	var label, suffix string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Suffix != "" {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + p.Suffix)
	}

	barWidth := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*p.Fraction), 0), barWidth)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	bar := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + suffix
}
