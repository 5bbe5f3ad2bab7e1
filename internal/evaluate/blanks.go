package evaluate

import (
	"fmt"
	"strings"

	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
)

// blanksEvaluator serves fill_in_the_blanks. Each blank is classified on
// its own; the question counts only when every blank is right.
type blanksEvaluator struct {
	policy Policy
}

func (blanksEvaluator) Kind() exercise.Kind { return exercise.KindFillInBlanks }

func (blanksEvaluator) Begin(q exercise.Question, _ exercise.Shuffler) *Attempt {
	n := 0
	if q.Blanks != nil {
		n = len(q.Blanks.Blanks())
	}
	return &Attempt{
		Kind: exercise.KindFillInBlanks,
		Blanks: &BlanksState{
			Values:  make([]string, n),
			Results: make([]BlankResult, n),
		},
	}
}

func (e blanksEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}
	a, ok := action.(SubmitBlanks)
	if !ok || q.Blanks == nil {
		return Outcome{}, wrongAction(action)
	}

	blanks := q.Blanks.Blanks()
	st := att.Blanks
	if len(a.Values) != len(blanks) {
		return Outcome{}, fmt.Errorf("%w: got %d values for %d blanks", ErrWrongAction, len(a.Values), len(blanks))
	}

	att.Attempts++
	canRetry := e.policy.MaxBlankAttempts == 0 || att.Attempts < e.policy.MaxBlankAttempts

	allCorrect, retryable := true, false
	for i, b := range blanks {
		if st.Locked(i) {
			allCorrect = allCorrect && st.Results[i].Correct
			continue
		}

		st.Values[i] = a.Values[i]
		v := textmatch.Classify(a.Values[i], b.Accepted()...)
		res := BlankResult{Verdict: v, Correct: v.IsCorrect}
		switch {
		case v.IsCorrect:
			res.Locked = true
		case v.AllowRetry && canRetry:
			retryable = true
		default:
			res.Locked = true
			res.Reveal = b.Answer
		}
		st.Results[i] = res
		allCorrect = allCorrect && v.IsCorrect
	}

	results := append([]BlankResult(nil), st.Results...)

	if !allCorrect && retryable {
		return Outcome{
			Evaluated: true,
			Retry:     true,
			Feedback:  "Some answers are close. You have a second chance.",
			Hint:      retryHints(st.Results),
			Blanks:    results,
			Deferred: &Deferred{
				Kind:  DeferClearFeedback,
				Delay: e.policy.RetryFeedback,
			},
		}, nil
	}

	att.Resolved = true
	att.Correct = allCorrect
	out := Outcome{
		Evaluated:  true,
		Correct:    allCorrect,
		MayAdvance: true,
		Blanks:     results,
		Hint:       q.Explanation,
	}
	if allCorrect {
		out.ScoreDelta = 1
		out.Feedback = "All blanks are correct!"
	} else {
		out.Feedback = revealFeedback(blanks, st.Results)
	}
	return out, nil
}

func retryHints(results []BlankResult) string {
	var hints []string
	for i, r := range results {
		if !r.Locked && r.Verdict.Hint != "" {
			hints = append(hints, fmt.Sprintf("Blank %d: %s", i+1, r.Verdict.Hint))
		}
	}
	return strings.Join(hints, "\n")
}

func revealFeedback(blanks []exercise.Blank, results []BlankResult) string {
	var wrong []string
	for i, r := range results {
		if !r.Correct {
			wrong = append(wrong, fmt.Sprintf("%q", blanks[i].Answer))
		}
	}
	if len(wrong) == 1 {
		return "The correct answer is: " + wrong[0]
	}
	return "The correct answers are: " + strings.Join(wrong, ", ")
}
