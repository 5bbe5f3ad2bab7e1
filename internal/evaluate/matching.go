package evaluate

import (
	"slices"

	"github.com/englifish/englifish/internal/exercise"
)

// matchingEvaluator serves matching. Pairs compare by exact raw value;
// wrong attempts are unlimited and the question scores once on completion.
type matchingEvaluator struct {
	policy Policy
}

func (matchingEvaluator) Kind() exercise.Kind { return exercise.KindMatching }

func (matchingEvaluator) Begin(q exercise.Question, sh exercise.Shuffler) *Attempt {
	st := &MatchingState{Matched: make(map[string]string)}
	if q.Matching != nil {
		rights := make([]string, len(q.Matching.Pairs))
		for i, p := range q.Matching.Pairs {
			st.Lefts = append(st.Lefts, p.Left)
			rights[i] = p.Right
		}
		st.Rights = exercise.ShuffledCopy(rights, sh)
	}
	return &Attempt{Kind: exercise.KindMatching, Matching: st}
}

func (e matchingEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	st := att.Matching
	if q.Matching == nil || st == nil {
		return Outcome{}, wrongAction(action)
	}

	if a, ok := action.(ClearFlash); ok {
		if st.Flash != nil && st.Flash.Seq == a.Seq {
			st.Flash = nil
		}
		return Outcome{}, nil
	}

	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}

	switch a := action.(type) {
	case SelectLeft:
		if !slices.Contains(st.Lefts, a.Value) {
			return Outcome{}, ErrOutOfRange
		}
		if st.IsLeftMatched(a.Value) {
			return Outcome{}, wrongAction(action)
		}
		if st.SelectedLeft == a.Value {
			st.SelectedLeft = ""
			return Outcome{}, nil
		}
		st.SelectedLeft = a.Value

	case SelectRight:
		if !slices.Contains(st.Rights, a.Value) {
			return Outcome{}, ErrOutOfRange
		}
		if st.IsRightMatched(a.Value) {
			return Outcome{}, wrongAction(action)
		}
		if st.SelectedRight == a.Value {
			st.SelectedRight = ""
			return Outcome{}, nil
		}
		st.SelectedRight = a.Value

	default:
		return Outcome{}, wrongAction(action)
	}

	if st.SelectedLeft == "" || st.SelectedRight == "" {
		return Outcome{}, nil
	}
	return e.judgePair(q, att), nil
}

func (e matchingEvaluator) judgePair(q exercise.Question, att *Attempt) Outcome {
	st := att.Matching
	left, right := st.SelectedLeft, st.SelectedRight
	st.SelectedLeft, st.SelectedRight = "", ""

	want, _ := q.Matching.RightFor(left)
	if want != right {
		st.WrongAttempts++
		st.Seq++
		st.Flash = &Flash{Left: left, Right: right, Seq: st.Seq}
		return Outcome{
			Evaluated: true,
			Feedback:  "Those two don't match. Try again.",
			Deferred: &Deferred{
				Kind:   DeferClearFlash,
				Delay:  e.policy.MatchingResetDelay,
				Action: ClearFlash{Seq: st.Seq},
			},
		}
	}

	st.Matched[left] = right
	st.Flash = nil

	if len(st.Matched) < len(q.Matching.Pairs) {
		return Outcome{
			Evaluated: true,
			Correct:   true,
			Feedback:  "Match!",
			Deferred: &Deferred{
				Kind:  DeferClearFeedback,
				Delay: e.policy.TemporaryFeedback,
			},
		}
	}

	att.Attempts++
	att.Resolved = true
	att.Correct = true
	return Outcome{
		Evaluated:  true,
		Correct:    true,
		ScoreDelta: 1,
		MayAdvance: true,
		Feedback:   "All pairs matched!",
		Hint:       q.Explanation,
	}
}
