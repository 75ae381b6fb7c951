package exam

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	ex "github.com/abhisek/learntool/internal/exam"
	"github.com/abhisek/learntool/internal/record"
	"github.com/abhisek/learntool/internal/router"
	"github.com/abhisek/learntool/internal/screen"
	"github.com/abhisek/learntool/internal/ui/components"
	"github.com/abhisek/learntool/internal/ui/layout"
)

type phase int

const (
	phaseSetup phase = iota
	phaseAnswering
	phaseFeedback
	phaseScore
)

// ExamScreen asks for a test size, runs the sampled test and shows the
// recorded score.
type ExamScreen struct {
	engine *ex.Engine
	phase  phase

	sizeInput components.TextInput
	exam      *ex.Exam
	input     components.TextInput
	mc        components.MultiChoice
	outcome   ex.Outcome
	result    record.Result

	confirmAbandon bool
	notice         string
	errMsg         string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.BackHandler = (*ExamScreen)(nil)

// New creates a test screen. defaultSize prefills the size prompt.
func New(engine *ex.Engine, defaultSize int) *ExamScreen {
	in := components.NewTextInput("Number of questions", true, 4)
	if defaultSize > 0 {
		in.Model.SetValue(strconv.Itoa(defaultSize))
		in.Model.CursorEnd()
	}
	return &ExamScreen{
		engine:    engine,
		sizeInput: in,
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	return s.sizeInput.Init()
}

func (s *ExamScreen) Title() string {
	return "Test"
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmAbandon:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Continue"},
		}
	case s.phase == phaseSetup:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.phase == phaseScore:
		return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	case s.exam != nil && s.exam.Current() != nil && s.exam.Current().IsMultipleChoice():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-9", Description: "Pick"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Abandon"},
	}
}

// Back leaves the setup and score views directly. During a test it asks
// for confirmation first; a second Back dismisses the prompt.
func (s *ExamScreen) Back() tea.Cmd {
	switch {
	case s.errMsg != "", s.phase == phaseSetup, s.phase == phaseScore:
		return router.Pop
	case s.confirmAbandon:
		s.confirmAbandon = false
		return nil
	}
	s.confirmAbandon = true
	return nil
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		switch {
		case s.phase == phaseSetup:
			s.sizeInput, cmd = s.sizeInput.Update(msg)
		case s.phase == phaseAnswering && !s.currentIsChoice():
			s.input, cmd = s.input.Update(msg)
		}
		return s, cmd
	}

	if s.errMsg != "" {
		return s, router.Pop
	}
	if s.confirmAbandon {
		return s.handleConfirm(kmsg)
	}

	switch s.phase {
	case phaseSetup:
		return s.handleSetup(kmsg)
	case phaseAnswering:
		return s.handleAnswer(kmsg)
	case phaseFeedback:
		return s, s.advance()
	case phaseScore:
		if kmsg.String() == "enter" {
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *ExamScreen) handleConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := s.engine.Abandon(context.Background(), s.exam); err != nil {
			s.confirmAbandon = false
			s.errMsg = err.Error()
			return s, nil
		}
		return s, router.Pop
	case "n", "N":
		s.confirmAbandon = false
	}
	return s, nil
}

func (s *ExamScreen) handleSetup(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		s.sizeInput, cmd = s.sizeInput.Update(msg)
		return s, cmd
	}

	n, err := s.sizeInput.NumericValue()
	if err != nil {
		s.notice = "Enter the number of questions."
		return s, nil
	}
	exam, err := s.engine.Start(n)
	if err != nil {
		s.notice = sizeError(err)
		return s, nil
	}

	s.exam = exam
	s.notice = ""
	return s, s.showQuestion()
}

func (s *ExamScreen) handleAnswer(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.currentIsChoice() {
		s.mc, _ = s.mc.Update(msg)
		if s.mc.Submitted {
			s.submit(s.mc.Answer())
		}
		return s, nil
	}
	if msg.String() == "enter" {
		s.submit(s.input.Value())
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ExamScreen) submit(answer string) {
	q := s.exam.Current()
	out, err := s.exam.Answer(answer)
	if errors.Is(err, ex.ErrEmptyAnswer) {
		s.notice = "Please enter an answer."
		return
	}
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.outcome = out
	s.notice = ""
	s.phase = phaseFeedback
	if q.IsMultipleChoice() {
		s.mc.Reveal(q.CorrectIndex())
	}
}

// advance moves past the feedback view to the next question, or scores
// the test once every question has been answered.
func (s *ExamScreen) advance() tea.Cmd {
	if !s.exam.Done() {
		return s.showQuestion()
	}

	res, err := s.engine.Finish(context.Background(), s.exam)
	s.result = res
	s.phase = phaseScore
	if err != nil {
		s.notice = "The result could not be saved: " + err.Error()
	}
	return nil
}

func (s *ExamScreen) showQuestion() tea.Cmd {
	s.phase = phaseAnswering
	q := s.exam.Current()
	if q.IsMultipleChoice() {
		s.mc = components.NewMultiChoice(q.Options())
		return nil
	}
	s.input = components.NewTextInput("Type your answer...", false, 0)
	return s.input.Init()
}

func (s *ExamScreen) currentIsChoice() bool {
	if s.exam == nil {
		return false
	}
	q := s.exam.Current()
	return q != nil && q.IsMultipleChoice()
}

// sizeError drops the trailing sentinel text from a rejected start.
func sizeError(err error) string {
	suffix := ": " + ex.ErrInsufficientQuestions.Error()
	return "Cannot start: " + strings.TrimSuffix(err.Error(), suffix) + "."
}
