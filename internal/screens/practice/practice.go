package practice

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	prac "github.com/abhisek/learntool/internal/practice"
	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/layout"
)

type phase int

const (
	phaseStarting phase = iota
	phaseAnswering
	phaseFeedback
	phaseSummary
)

// startedMsg is sent once the engine has checked the enabled pool.
type startedMsg struct {
	Err error
}

// PracticeScreen drives one practice session.
type PracticeScreen struct {
	engine *prac.Engine
	phase  phase

	round   *prac.Round
	input   components.TextInput
	mc      components.MultiChoice
	outcome prac.Outcome
	summary prac.Summary

	// notice is a non-fatal message shown under the question, e.g. a
	// rejected empty answer or a failed save.
	notice string
	errMsg string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackHandler = (*PracticeScreen)(nil)

// New creates a practice screen around a fresh engine.
func New(engine *prac.Engine) *PracticeScreen {
	return &PracticeScreen{engine: engine}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{Err: s.engine.Start()}
	}
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next question"},
			{Key: "Esc", Description: "Stop"},
		}
	case s.phase == phaseSummary:
		return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	case s.round != nil && s.round.Question.IsMultipleChoice():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-9", Description: "Pick"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Stop"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Stop"},
	}
}

// Back stops the session at the round boundary and shows the summary. An
// unanswered question is discarded.
func (s *PracticeScreen) Back() tea.Cmd {
	switch {
	case s.errMsg != "", s.phase == phaseSummary, s.phase == phaseStarting:
		return router.Pop
	}
	s.summary = s.engine.Stop()
	s.phase = phaseSummary
	s.round = nil
	return nil
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.errMsg = startError(msg.Err)
			return s, nil
		}
		return s, s.nextRound()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && s.round != nil && !s.round.Question.IsMultipleChoice() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, router.Pop
	}

	switch s.phase {
	case phaseFeedback:
		return s, s.nextRound()

	case phaseSummary:
		if msg.String() == "enter" {
			return s, router.Pop
		}
		return s, nil

	case phaseAnswering:
		if s.round.Question.IsMultipleChoice() {
			s.mc, _ = s.mc.Update(msg)
			if s.mc.Submitted {
				return s, s.submit(s.mc.Answer())
			}
			return s, nil
		}
		if msg.String() == "enter" {
			return s, s.submit(s.input.Value())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// nextRound draws the next question and resets the answer widgets.
func (s *PracticeScreen) nextRound() tea.Cmd {
	round, err := s.engine.Next()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.round = round
	s.phase = phaseAnswering
	s.notice = ""
	q := round.Question
	if q.IsMultipleChoice() {
		s.mc = components.NewMultiChoice(q.Options())
		return nil
	}
	s.input = components.NewTextInput("Type your answer...", false, 0)
	return s.input.Init()
}

func (s *PracticeScreen) submit(answer string) tea.Cmd {
	out, err := s.engine.Answer(context.Background(), answer)
	switch {
	case errors.Is(err, prac.ErrEmptyAnswer):
		s.notice = "Please enter an answer."
		return nil
	case err != nil && out.Question == nil:
		s.errMsg = err.Error()
		return nil
	case err != nil:
		s.notice = "Progress could not be saved: " + err.Error()
	}

	s.outcome = out
	s.phase = phaseFeedback
	if s.round.Question.IsMultipleChoice() {
		s.mc.Reveal(s.round.Question.CorrectIndex())
	}
	return nil
}

func startError(err error) string {
	if errors.Is(err, prac.ErrInsufficientQuestions) {
		return "Practice needs at least 5 enabled questions. Add or enable more questions first."
	}
	return err.Error()
}
