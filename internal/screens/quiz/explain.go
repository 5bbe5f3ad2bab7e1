package quiz

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/explain"
)

// requestExplanation asks for an explanation of the question the learner
// just missed and starts polling for it.
func (s *QuizScreen) requestExplanation(q exercise.Question, att *evaluate.Attempt) tea.Cmd {
	if s.deps.Explainer == nil || att == nil {
		return nil
	}
	key := explain.Key{Generation: s.view.Generation, Question: s.view.Progress.Current}
	s.deps.Explainer.Request(context.Background(), key, explain.Input{
		Kind:      q.Kind.String(),
		Prompt:    q.Prompt,
		Answer:    learnerAnswer(q, att),
		Correct:   correctAnswer(q),
		Rationale: rationale(q, att),
	})
	s.explainKey = key
	s.explaining = true
	s.explanation = nil
	return pollExplanation(key)
}

func pollExplanation(key explain.Key) tea.Cmd {
	return tea.Tick(explainPoll, func(time.Time) tea.Msg {
		return explainPollMsg{key: key}
	})
}

func (s *QuizScreen) pollExplanation(key explain.Key) tea.Cmd {
	if !s.explaining || key != s.explainKey || s.deps.Explainer == nil {
		return nil
	}
	exp, err, ok := s.deps.Explainer.Consume(key)
	if !ok {
		return pollExplanation(key)
	}
	s.explaining = false
	if err == nil {
		s.explanation = exp
	}
	return nil
}

func learnerAnswer(q exercise.Question, att *evaluate.Attempt) string {
	switch {
	case att.Choice != nil:
		if i := att.Choice.Selected; i >= 0 && q.Choice != nil && i < len(q.Choice.Options) {
			return q.Choice.Options[i].Text
		}
		if c := att.Choice.Chosen; c != nil {
			if *c {
				return "True"
			}
			return "False"
		}
	case att.Blanks != nil:
		return strings.Join(att.Blanks.Values, ", ")
	case att.Ordering != nil:
		return strings.Join(att.Ordering.Built, " ")
	case att.Text != nil:
		return att.Text.Last
	}
	return ""
}

func correctAnswer(q exercise.Question) string {
	switch {
	case q.Choice != nil:
		if i := q.Choice.CorrectIndex(); i >= 0 {
			return q.Choice.Options[i].Text
		}
		return q.Choice.Answer
	case q.Blanks != nil:
		var answers []string
		for _, b := range q.Blanks.Blanks() {
			answers = append(answers, b.Answer)
		}
		return strings.Join(answers, ", ")
	case q.Ordering != nil:
		return strings.Join(q.Ordering.CorrectOrder, " ")
	case q.ShortAnswer != nil:
		return q.ShortAnswer.CorrectAnswer
	}
	return ""
}

func rationale(q exercise.Question, att *evaluate.Attempt) string {
	if att.Choice != nil && q.Choice != nil {
		if i := att.Choice.Selected; i >= 0 && i < len(q.Choice.Options) && q.Choice.Options[i].Rationale != "" {
			return q.Choice.Options[i].Rationale
		}
	}
	return q.Explanation
}
