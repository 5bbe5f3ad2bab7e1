package evaluate

import (
	"fmt"
	"strconv"

	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
)

// choiceEvaluator serves multiple_choice and true_false. One selection
// resolves the question.
type choiceEvaluator struct {
	kind exercise.Kind
}

func (e choiceEvaluator) Kind() exercise.Kind { return e.kind }

func (e choiceEvaluator) Begin(q exercise.Question, _ exercise.Shuffler) *Attempt {
	return &Attempt{Kind: e.kind, Choice: &ChoiceState{Selected: -1}}
}

func (e choiceEvaluator) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att.Resolved {
		return Outcome{}, ErrAlreadyResolved
	}
	c := q.Choice
	if c == nil {
		return Outcome{}, wrongAction(action)
	}

	var correct bool
	var chosen exercise.Option
	switch a := action.(type) {
	case SelectOption:
		if !c.HasOptions() {
			return Outcome{}, wrongAction(action)
		}
		if a.Index < 0 || a.Index >= len(c.Options) {
			return Outcome{}, ErrOutOfRange
		}
		chosen = c.Options[a.Index]
		correct = chosen.IsCorrect
		att.Choice.Selected = a.Index

	case ChooseBool:
		if e.kind != exercise.KindTrueFalse {
			return Outcome{}, wrongAction(action)
		}
		want := textmatch.Normalize(strconv.FormatBool(a.Value))
		if c.HasOptions() {
			idx := -1
			for i, o := range c.Options {
				if textmatch.Normalize(o.Text) == want {
					idx = i
					break
				}
			}
			if idx < 0 {
				return Outcome{}, wrongAction(action)
			}
			chosen = c.Options[idx]
			correct = chosen.IsCorrect
			att.Choice.Selected = idx
		} else {
			correct = want == textmatch.Normalize(c.Answer)
		}
		v := a.Value
		att.Choice.Chosen = &v

	default:
		return Outcome{}, wrongAction(action)
	}

	att.Attempts++
	att.Resolved = true
	att.Correct = correct

	out := Outcome{
		Evaluated:  true,
		Correct:    correct,
		MayAdvance: true,
		Hint:       chosen.Rationale,
	}
	if out.Hint == "" {
		out.Hint = q.Explanation
	}
	if correct {
		out.ScoreDelta = 1
		out.Feedback = "Correct!"
	} else {
		out.Feedback = fmt.Sprintf("Incorrect. The correct answer is: %s", correctChoiceText(c))
	}
	return out, nil
}

func correctChoiceText(c *exercise.ChoicePayload) string {
	if idx := c.CorrectIndex(); idx >= 0 {
		return c.Options[idx].Text
	}
	if b, err := strconv.ParseBool(textmatch.Normalize(c.Answer)); err == nil {
		if b {
			return "True"
		}
		return "False"
	}
	return c.Answer
}
