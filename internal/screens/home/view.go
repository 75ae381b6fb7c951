package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/stats"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/theme"
)

const titleFull = `╦  ╔═╗╔═╗╦═╗╔╗╔╔╦╗╔═╗╔═╗╦
║  ║╣ ╠═╣╠╦╝║║║ ║ ║ ║║ ║║
╩═╝╚═╝╩ ╩╩╚═╝╚╝ ╩ ╚═╝╚═╝╩═╝`

const titleCompact = "L · E · A · R · N · T · O · O · L"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderBankBar summarizes the bank in a bordered box.
func renderBankBar(t stats.Totals, cw int) string {
	count := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := fmt.Sprintf("%s %s  %s %s",
		count.Render(fmt.Sprintf("%d", t.Questions)), dim.Render("QUESTIONS"),
		count.Render(fmt.Sprintf("%d", t.Enabled)), dim.Render("ENABLED"))

	shown := t.Practice.Shown + t.Test.Shown
	if shown > 0 {
		acc := t.Practice.Add(t.Test).Accuracy()
		line += fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(fmt.Sprintf("%.0f%%", acc)),
			dim.Render("CORRECT"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func renderMenu(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Align(lipgloss.Left).Render(m.View()))
}

func centerBlock(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
