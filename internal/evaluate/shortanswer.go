package evaluate

import (
	"strings"

	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
)

// shortAnswerEvaluator serves short_answer with a bounded number of
// attempts.
type shortAnswerEvaluator struct {
	policy Policy
}

func (shortAnswerEvaluator) Kind() exercise.Kind { return exercise.KindShortAnswer }

func (shortAnswerEvaluator) Begin(exercise.Question, exercise.Shuffler) *Attempt {
	return &Attempt{Kind: exercise.KindShortAnswer, Text: &TextState{}}
}

func (e shortAnswerEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}
	a, ok := action.(SubmitText)
	if !ok || q.ShortAnswer == nil {
		return Outcome{}, wrongAction(action)
	}
	if strings.TrimSpace(a.Text) == "" {
		return Outcome{}, &InputValidationError{Field: "answer", Err: ErrEmptyAnswer}
	}

	att.Attempts++
	v := textmatch.Classify(a.Text, q.ShortAnswer.Accepted()...)
	att.Text.Last = a.Text
	att.Text.LastVerdict = &v

	if !v.IsCorrect && v.AllowRetry && att.Attempts < e.policy.MaxTextAttempts {
		return Outcome{
			Evaluated: true,
			Retry:     true,
			Feedback:  v.Feedback,
			Hint:      v.Hint,
			Verdict:   &v,
			Deferred: &Deferred{
				Kind:  DeferClearFeedback,
				Delay: e.policy.RetryFeedback,
			},
		}, nil
	}

	att.Resolved = true
	att.Correct = v.IsCorrect
	out := Outcome{
		Evaluated:  true,
		Correct:    v.IsCorrect,
		MayAdvance: true,
		Feedback:   v.Feedback,
		Verdict:    &v,
		Hint:       q.Explanation,
	}
	if v.IsCorrect {
		out.ScoreDelta = 1
	} else {
		out.Feedback = "The correct answer is: " + q.ShortAnswer.CorrectAnswer
	}
	return out, nil
}
