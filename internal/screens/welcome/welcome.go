package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	"github.com/abhisek/learntool/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	taglineAt    = 500 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const tagline = "Practice until it sticks."

type tickMsg time.Time

// WelcomeScreen shows a short splash, then replaces itself with the screen
// produced by homeFactory. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	status       string
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. status is shown under the tagline, e.g. the
// size of the question bank.
func New(homeFactory func() screen.Screen, status string) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		status:      status,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.homeFactory())
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width)}

	if w.elapsed >= taglineAt {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline))
		if w.status != "" {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.status))
		}
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
