package evaluate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/englifish/englifish/internal/exercise"
)

// orderingEvaluator serves ordering. The built sequence is checked once,
// and only after every pool item has been placed.
type orderingEvaluator struct{}

func (orderingEvaluator) Kind() exercise.Kind { return exercise.KindOrdering }

func (orderingEvaluator) Begin(q exercise.Question, sh exercise.Shuffler) *Attempt {
	st := &OrderingState{}
	if q.Ordering != nil {
		st.Pool = exercise.ShuffledCopy(q.Ordering.Items, sh)
	}
	return &Attempt{Kind: exercise.KindOrdering, Ordering: st}
}

func (orderingEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}
	st := att.Ordering
	if q.Ordering == nil || st == nil {
		return Outcome{}, wrongAction(action)
	}

	switch a := action.(type) {
	case OrderAppend:
		if a.PoolIndex < 0 || a.PoolIndex >= len(st.Pool) {
			return Outcome{}, ErrOutOfRange
		}
		st.Built = append(st.Built, st.Pool[a.PoolIndex])
		st.Pool = slices.Delete(st.Pool, a.PoolIndex, a.PoolIndex+1)
		return Outcome{}, nil

	case OrderRemove:
		if a.BuiltIndex < 0 || a.BuiltIndex >= len(st.Built) {
			return Outcome{}, ErrOutOfRange
		}
		st.Pool = append(st.Pool, st.Built[a.BuiltIndex])
		st.Built = slices.Delete(st.Built, a.BuiltIndex, a.BuiltIndex+1)
		return Outcome{}, nil

	case OrderMove:
		if a.From < 0 || a.From >= len(st.Built) || a.To < 0 || a.To >= len(st.Built) {
			return Outcome{}, ErrOutOfRange
		}
		item := st.Built[a.From]
		st.Built = slices.Delete(st.Built, a.From, a.From+1)
		st.Built = slices.Insert(st.Built, a.To, item)
		return Outcome{}, nil

	case OrderCheck:
		if len(st.Pool) > 0 {
			return Outcome{}, ErrPoolNotExhausted
		}
		correct := slices.Equal(st.Built, q.Ordering.CorrectOrder)
		att.Attempts++
		att.Resolved = true
		att.Correct = correct

		out := Outcome{
			Evaluated:  true,
			Correct:    correct,
			MayAdvance: true,
			Hint:       q.Explanation,
		}
		if correct {
			out.ScoreDelta = 1
			out.Feedback = "Correct order!"
		} else {
			out.Feedback = fmt.Sprintf("Not quite. The correct order is: %s", strings.Join(q.Ordering.CorrectOrder, " "))
		}
		return out, nil
	}

	return Outcome{}, wrongAction(action)
}
