package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/explain"
	"github.com/englifish/englifish/internal/llm"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screens/results"
	sess "github.com/englifish/englifish/internal/session"
)

type stubLoader struct {
	set *exercise.Set
	err error
}

func (l stubLoader) LoadSet(context.Context, string) (*exercise.Set, exercise.ShapeErrors, error) {
	return l.set, nil, l.err
}

func choiceQuestion() exercise.Question {
	return exercise.Question{
		Kind:   exercise.KindMultipleChoice,
		Prompt: "Past of 'go'?",
		Choice: &exercise.ChoicePayload{Options: []exercise.Option{
			{Text: "goed"},
			{Text: "went", IsCorrect: true},
		}},
	}
}

func shortQuestion() exercise.Question {
	return exercise.Question{
		Kind:        exercise.KindShortAnswer,
		Prompt:      "Past of 'eat'?",
		ShortAnswer: &exercise.ShortAnswerPayload{CorrectAnswer: "ate"},
	}
}

func newTestScreen(t *testing.T, explainer *explain.Service, questions ...exercise.Question) (*QuizScreen, *sess.Controller) {
	t.Helper()
	p := evaluate.DefaultPolicy()
	p.MatchingResetDelay = time.Millisecond
	p.TemporaryFeedback = time.Millisecond
	p.RetryFeedback = time.Millisecond

	set := &exercise.Set{ID: "a1-test", Title: "Test set", Questions: questions}
	ctrl := sess.NewController(stubLoader{set: set}, sess.Options{
		Registry: evaluate.NewRegistry(p),
		Logger:   slog.New(slog.DiscardHandler),
	})
	s := New(Deps{Controller: ctrl, Explainer: explainer, Logger: slog.New(slog.DiscardHandler)}, "a1-test")

	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	require.True(t, s.loaded)
	require.NoError(t, s.err)
	return s, ctrl
}

func press(s *QuizScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func typeKey(s *QuizScreen, r rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	return cmd
}

// run executes cmd and returns the messages it produced, unpacking
// batches one level.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, c())
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestQuiz_LoadAndAnswerChoice(t *testing.T) {
	s, ctrl := newTestScreen(t, nil, choiceQuestion(), shortQuestion())

	assert.Equal(t, "Test set", s.Title())
	assert.Equal(t, "★ 0", s.Status())
	assert.Contains(t, s.View(100, 30), "Past of 'go'?")

	press(s, tea.KeyDown)
	press(s, tea.KeyEnter)

	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
	assert.Equal(t, "★ 1", s.Status())
	assert.Contains(t, s.View(100, 30), "Correct!")

	press(s, tea.KeyEnter)
	assert.Equal(t, sess.PhasePresenting, ctrl.Phase())
	assert.Equal(t, exercise.KindShortAnswer, s.activeQuestion().Kind)
}

func TestQuiz_TrueFalseByValue(t *testing.T) {
	q := exercise.Question{
		Kind:   exercise.KindTrueFalse,
		Prompt: "The sky is green.",
		Choice: &exercise.ChoicePayload{Answer: "false"},
	}
	s, ctrl := newTestScreen(t, nil, q)

	typeKey(s, 'f')
	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
	assert.Equal(t, 1, s.view.Score)
	assert.True(t, s.options.Revealed())
}

func TestQuiz_ShortAnswerEmptyIsRejected(t *testing.T) {
	s, ctrl := newTestScreen(t, nil, shortQuestion())

	press(s, tea.KeyEnter)
	assert.Equal(t, sess.PhasePresenting, ctrl.Phase())
	assert.Contains(t, s.View(100, 30), "Please enter an answer first.")

	s.text.SetValue("ate")
	press(s, tea.KeyEnter)
	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
	assert.Empty(t, s.notice)
}

func TestQuiz_Blanks(t *testing.T) {
	q := exercise.Question{
		Kind:   exercise.KindFillInBlanks,
		Prompt: "Complete the sentence.",
		Blanks: &exercise.BlanksPayload{Parts: []exercise.Part{
			{Text: "I "},
			{Blank: &exercise.Blank{Answer: "went"}},
			{Text: " to the "},
			{Blank: &exercise.Blank{Answer: "park"}},
		}},
	}
	s, ctrl := newTestScreen(t, nil, q)
	require.Len(t, s.blanks, 2)
	assert.True(t, s.blanks[0].Focused())

	press(s, tea.KeyTab)
	assert.Equal(t, 1, s.blankFocus)

	s.blanks[0].SetValue("went")
	s.blanks[1].SetValue("park")
	press(s, tea.KeyEnter)

	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
	assert.Contains(t, s.View(100, 30), "All blanks are correct!")
}

func TestQuiz_MatchingFlashClears(t *testing.T) {
	q := exercise.Question{
		Kind:   exercise.KindMatching,
		Prompt: "Match the words.",
		Matching: &exercise.MatchingPayload{Pairs: []exercise.Pair{
			{Left: "red", Right: "rojo"},
			{Left: "blue", Right: "azul"},
		}},
	}
	s, ctrl := newTestScreen(t, nil, q)

	// red + azul is wrong.
	press(s, tea.KeyEnter)
	assert.Equal(t, 1, s.match.col, "picking a left item moves to the right column")
	press(s, tea.KeyDown)
	cmd := press(s, tea.KeyEnter)

	att := s.activeAttempt()
	require.NotNil(t, att.Matching.Flash)

	for _, msg := range run(cmd) {
		s.Update(msg)
	}
	assert.Nil(t, att.Matching.Flash)

	// red + rojo, then blue + azul.
	s.match = matchCursor{}
	press(s, tea.KeyEnter)
	press(s, tea.KeyUp)
	press(s, tea.KeyEnter)
	assert.True(t, att.Matching.IsLeftMatched("red"))

	press(s, tea.KeyDown)
	press(s, tea.KeyEnter)
	press(s, tea.KeyDown)
	press(s, tea.KeyEnter)
	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
}

func TestQuiz_Ordering(t *testing.T) {
	q := exercise.Question{
		Kind:   exercise.KindOrdering,
		Prompt: "Order the words.",
		Ordering: &exercise.OrderingPayload{
			Items:        []string{"I", "like", "tea"},
			CorrectOrder: []string{"I", "like", "tea"},
		},
	}
	s, ctrl := newTestScreen(t, nil, q)

	typeKey(s, 'c')
	assert.Contains(t, s.View(100, 30), "Place every word before checking.")

	press(s, tea.KeyEnter)
	press(s, tea.KeyEnter)
	press(s, tea.KeyEnter)
	att := s.activeAttempt()
	assert.Equal(t, []string{"I", "like", "tea"}, att.Ordering.Built)
	assert.True(t, s.order.inBuilt)

	press(s, tea.KeyEnter)
	assert.Equal(t, sess.PhaseAdvancing, ctrl.Phase())
	assert.True(t, att.Correct)
}

func TestQuiz_QuitConfirm(t *testing.T) {
	s, ctrl := newTestScreen(t, nil, choiceQuestion())
	assert.True(t, s.HandlesEscape())

	press(s, tea.KeyEscape)
	assert.True(t, s.quitConfirm)
	assert.Contains(t, s.View(100, 30), "Leave this quiz?")

	typeKey(s, 'n')
	assert.False(t, s.quitConfirm)

	press(s, tea.KeyEscape)
	cmd := typeKey(s, 'y')
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, sess.PhaseIdle, ctrl.Phase())
}

func TestQuiz_FinishShowsResults(t *testing.T) {
	s, ctrl := newTestScreen(t, nil, choiceQuestion())

	press(s, tea.KeyEnter)
	cmd := press(s, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &results.ResultsScreen{}, msg.Screen)
	assert.Equal(t, sess.PhaseSummarizing, ctrl.Phase())
}

func TestQuiz_LoadError(t *testing.T) {
	ctrl := sess.NewController(stubLoader{err: errors.New("no such set")}, sess.Options{
		Logger: slog.New(slog.DiscardHandler),
	})
	s := New(Deps{Controller: ctrl}, "missing")
	s.Update(s.Init()())

	assert.Contains(t, s.View(100, 30), "no such set")
	cmd := press(s, tea.KeyEscape)
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestQuiz_ResumeAfterRetry(t *testing.T) {
	_, ctrl := newTestScreen(t, nil, choiceQuestion())
	require.NoError(t, ctrl.Retry())

	s := Resume(Deps{Controller: ctrl})
	assert.True(t, s.loaded)
	assert.Equal(t, "Past of 'go'?", s.activeQuestion().Prompt)
}

func TestQuiz_ExplainsWrongAnswer(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"'Eat' is irregular.","tip":"eat, ate, eaten"}`),
	})
	svc := explain.NewService(provider, explain.DefaultConfig(), slog.New(slog.DiscardHandler))
	s, _ := newTestScreen(t, svc, shortQuestion())

	s.text.SetValue("banana")
	cmd := press(s, tea.KeyEnter)
	require.True(t, s.explaining)
	assert.Contains(t, s.View(100, 30), "Asking the tutor why...")

	for i := 0; cmd != nil && i < 40; i++ {
		var next tea.Cmd
		for _, msg := range run(cmd) {
			if _, ok := msg.(explainPollMsg); ok {
				_, next = s.Update(msg)
			}
		}
		cmd = next
	}

	require.NotNil(t, s.explanation)
	assert.Contains(t, s.View(100, 30), "'Eat' is irregular.")
	assert.Contains(t, s.View(100, 30), "Tip: eat, ate, eaten")
}

func TestLearnerAndCorrectAnswer(t *testing.T) {
	q := choiceQuestion()
	att := &evaluate.Attempt{Choice: &evaluate.ChoiceState{Selected: 0}}
	assert.Equal(t, "goed", learnerAnswer(q, att))
	assert.Equal(t, "went", correctAnswer(q))

	tf := exercise.Question{Kind: exercise.KindTrueFalse, Choice: &exercise.ChoicePayload{Answer: "true"}}
	no := false
	assert.Equal(t, "False", learnerAnswer(tf, &evaluate.Attempt{Choice: &evaluate.ChoiceState{Selected: -1, Chosen: &no}}))
	assert.Equal(t, "true", correctAnswer(tf))
	assert.Equal(t, 0, correctIndex(tf))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-1, 3))
	assert.Equal(t, 2, clamp(5, 3))
	assert.Equal(t, 0, clamp(4, 0))
	assert.Equal(t, 1, clamp(1, 3))
}
