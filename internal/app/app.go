package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	"github.com/abhisek/learntool/internal/screens/home"
	"github.com/abhisek/learntool/internal/screens/welcome"
	"github.com/abhisek/learntool/internal/stats"
	"github.com/abhisek/learntool/internal/ui/layout"
)

// Options configures the interactive program.
type Options struct {
	Home home.Deps

	// SkipSplash starts directly on the home screen.
	SkipSplash bool

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	bank   home.Bank
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the splash or home screen.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(opts.Home) }

	var first screen.Screen
	if opts.SkipSplash {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory, bankStatus(opts.Home.Bank))
	}
	return AppModel{
		router: router.New(first),
		bank:   opts.Home.Bank,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				return m, b.Back()
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, bankStatus(m.bank), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// bankStatus is the short bank summary shown in the header.
func bankStatus(b home.Bank) string {
	if b == nil {
		return ""
	}
	t := stats.Summarize(b.All())
	return fmt.Sprintf("%d/%d enabled  ", t.Enabled, t.Questions)
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	log.Debug("starting interactive session")
	if _, err := p.Run(); err != nil {
		log.Error("interactive session failed", zap.Error(err))
		return fmt.Errorf("run program: %w", err)
	}
	log.Debug("interactive session ended")
	return nil
}
