package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntool/internal/ui/layout"
)

// Screen is one page of the TUI: the home menu, a practice or test run,
// the statistics table or the results list. The app draws the header and
// footer around View.
type Screen interface {
	// Init runs when the screen is pushed, e.g. to start a practice
	// session or load results in the background.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	View(width, height int) string

	// Title is shown in the header; the splash returns "".
	Title() string
}

// KeyHintProvider replaces the default footer hints, e.g. while a question
// is waiting for an answer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that handle Esc themselves, for
// example to end a session before leaving. Screens without it are popped.
type BackHandler interface {
	Back() tea.Cmd
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}
