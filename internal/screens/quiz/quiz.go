// Package quiz is the screen that plays an exercise set.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/explain"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/screens/results"
	sess "github.com/englifish/englifish/internal/session"
	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/layout"
)

const (
	loadTimeout  = 20 * time.Second
	explainPoll  = 250 * time.Millisecond
	answerLength = 120
)

// Deps are the collaborators of the quiz screen.
type Deps struct {
	Controller *sess.Controller

	// Explainer generates explanations for missed questions. Nil
	// disables them.
	Explainer *explain.Service

	Logger *slog.Logger
}

// QuizScreen implements screen.Screen for an exercise set.
type QuizScreen struct {
	deps  Deps
	setID string

	loaded bool
	err    error
	notice string
	view   sess.View

	// bound is the attempt the widgets below were built for.
	bound *evaluate.Attempt

	options    components.OptionList
	blanks     []components.TextInput
	blankFocus int
	text       components.TextInput
	match      matchCursor
	order      orderCursor

	quitConfirm bool

	explainKey  explain.Key
	explaining  bool
	explanation *explain.Explanation
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a screen that loads setID when it starts.
func New(deps Deps, setID string) *QuizScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &QuizScreen{deps: deps, setID: setID}
}

// Resume creates a screen for the session the controller already holds,
// as after a retry.
func Resume(deps Deps) *QuizScreen {
	s := New(deps, "")
	s.loaded = true
	s.refresh()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.loaded {
		return s.focusCmd()
	}
	ctrl, id := s.deps.Controller, s.setID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{err: ctrl.Load(ctx, id)}
	}
}

func (s *QuizScreen) Title() string {
	if s.view.SetTitle != "" {
		return s.view.SetTitle
	}
	return "Quiz"
}

// Status shows the running score in the header.
func (s *QuizScreen) Status() string {
	if !s.loaded || s.err != nil {
		return ""
	}
	return fmt.Sprintf("★ %d", s.view.Score)
}

// HandlesEscape keeps Esc from leaving the quiz without confirmation.
func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.err != nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case !s.loaded:
		return nil
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.view.Phase == sess.PhaseAdvancing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	}

	hints := kindHints(s.activeQuestion().Kind)
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case firedMsg:
		if s.deps.Controller.Fire(msg.sc) {
			s.refresh()
		}
		return s, nil

	case explainPollMsg:
		return s, s.pollExplanation(msg.key)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, s.forwardToInput(msg)
}

func (s *QuizScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.err = msg.err
		return s, nil
	}
	s.loaded = true
	s.refresh()
	return s, s.focusCmd()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.err != nil {
		if key == "esc" || key == "enter" {
			return s, router.PopCmd()
		}
		return s, nil
	}
	if !s.loaded {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, s.leave()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}
	if key == "esc" {
		s.quitConfirm = true
		return s, nil
	}

	if s.view.Phase == sess.PhaseAdvancing {
		if key == "enter" || key == "space" {
			return s, s.next()
		}
		return s, nil
	}

	return s, s.handleAnswerKey(msg)
}

// leave abandons the session and returns home.
func (s *QuizScreen) leave() tea.Cmd {
	if s.deps.Explainer != nil {
		s.deps.Explainer.Cancel()
	}
	s.deps.Controller.GoHome()
	return router.PopCmd()
}

// next moves past a resolved question.
func (s *QuizScreen) next() tea.Cmd {
	phase, err := s.deps.Controller.Next()
	if err != nil {
		s.deps.Logger.Debug("next rejected", "error", err)
		return nil
	}
	s.explaining = false
	s.explanation = nil

	if phase != sess.PhaseSummarizing {
		s.refresh()
		return s.focusCmd()
	}

	sum, err := s.deps.Controller.ScoreSummary()
	if err != nil {
		s.err = err
		return nil
	}
	deps := s.deps
	return router.ReplaceCmd(results.New(sum, results.Actions{
		Retry: func() tea.Cmd {
			if err := deps.Controller.Retry(); err != nil {
				deps.Logger.Warn("retry failed", "error", err)
				return nil
			}
			return router.ReplaceCmd(Resume(deps))
		},
		Home: func() tea.Cmd {
			deps.Controller.GoHome()
			return router.PopToRootCmd()
		},
	}))
}

// submit applies an action and schedules whatever the outcome defers.
func (s *QuizScreen) submit(action evaluate.Action) tea.Cmd {
	q := s.activeQuestion()
	att := s.activeAttempt()

	up, err := s.deps.Controller.SubmitAnswer(action)
	if err != nil {
		var ive *evaluate.InputValidationError
		switch {
		case errors.As(err, &ive):
			s.notice = "Please enter an answer first."
		case errors.Is(err, evaluate.ErrPoolNotExhausted):
			s.notice = "Place every word before checking."
		default:
			s.deps.Logger.Debug("answer rejected", "error", err)
		}
		return nil
	}
	s.notice = ""

	var cmds []tea.Cmd
	if sc := up.Scheduled; sc != nil {
		scheduled := *sc
		cmds = append(cmds, tea.Tick(scheduled.Delay, func(time.Time) tea.Msg {
			return firedMsg{sc: scheduled}
		}))
	}

	out := up.Outcome
	if out.Evaluated && !out.Correct && (out.MayAdvance || out.SubResolved) {
		cmds = append(cmds, s.requestExplanation(q, att))
	}

	s.refresh()
	return tea.Batch(cmds...)
}

// refresh takes a new snapshot and rebuilds the widgets when the active
// attempt changed.
func (s *QuizScreen) refresh() {
	v, err := s.deps.Controller.Current()
	if err != nil {
		s.err = err
		return
	}
	s.view = v

	att := s.activeAttempt()
	if att != s.bound {
		s.bound = att
		s.resetWidgets()
	}
	s.syncWidgets()
}

// activeQuestion is the question the learner answers now: the reading
// sub-question when playing a reading item.
func (s *QuizScreen) activeQuestion() exercise.Question {
	q := s.view.Question
	att := s.view.Attempt
	if q.Kind == exercise.KindReadingComprehension && q.Reading != nil && att != nil && att.Reading != nil {
		if sub := att.Reading.Sub; sub < len(q.Reading.Questions) {
			return q.Reading.Questions[sub]
		}
	}
	return q
}

func (s *QuizScreen) activeAttempt() *evaluate.Attempt {
	att := s.view.Attempt
	if att != nil && att.Reading != nil {
		return att.Reading.Current
	}
	return att
}
