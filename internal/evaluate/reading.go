package evaluate

import (
	"fmt"

	"github.com/englifish/englifish/internal/exercise"
)

// readingEvaluator walks reading comprehension sub-questions, delegating
// each to the evaluator of its kind. Each correct sub-question scores one
// point; the item counts as correct only when all of them are.
type readingEvaluator struct {
	registry *Registry
}

func (readingEvaluator) Kind() exercise.Kind { return exercise.KindReadingComprehension }

func (e readingEvaluator) Begin(q exercise.Question, sh exercise.Shuffler) *Attempt {
	st := &ReadingState{shuffler: sh}
	if q.Reading != nil && len(q.Reading.Questions) > 0 {
		st.Total = len(q.Reading.Questions)
		st.Results = make([]bool, 0, st.Total)
		st.Current = e.registry.Begin(q.Reading.Questions[0], sh)
	}
	return &Attempt{Kind: exercise.KindReadingComprehension, Reading: st}
}

func (e readingEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}
	st := att.Reading
	if q.Reading == nil || st == nil || st.Current == nil {
		return Outcome{}, wrongAction(action)
	}

	if _, ok := action.(ContinueReading); ok {
		if !st.AwaitingContinue {
			return Outcome{}, wrongAction(action)
		}
		st.Sub++
		st.AwaitingContinue = false
		st.Current = e.registry.Begin(q.Reading.Questions[st.Sub], st.shuffler)
		return Outcome{}, nil
	}

	if st.AwaitingContinue {
		return Outcome{}, ErrAlreadyResolved
	}

	sub := q.Reading.Questions[st.Sub]
	out, err := e.registry.Apply(sub, st.Current, action)
	if err != nil || !out.MayAdvance {
		return out, err
	}

	st.Results = append(st.Results, out.Correct)
	if out.Correct {
		st.CorrectAnswers++
	}

	if st.Sub < st.Total-1 {
		st.AwaitingContinue = true
		out.MayAdvance = false
		out.SubResolved = true
		return out, nil
	}

	att.Attempts++
	att.Resolved = true
	att.Correct = st.CorrectAnswers == st.Total

	pct := 100 * st.CorrectAnswers / st.Total
	out.MayAdvance = true
	out.Feedback = fmt.Sprintf("%s\nCorrect answers: %d of %d (%d%%)", out.Feedback, st.CorrectAnswers, st.Total, pct)
	return out, nil
}
