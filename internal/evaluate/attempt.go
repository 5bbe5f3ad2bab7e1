package evaluate

import (
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
)

// Attempt is the per-question state of one learner attempt. Exactly one
// of the kind-specific fields is set.
type Attempt struct {
	Kind     exercise.Kind
	Attempts int
	Resolved bool
	Correct  bool

	Choice   *ChoiceState
	Blanks   *BlanksState
	Matching *MatchingState
	Ordering *OrderingState
	Text     *TextState
	Reading  *ReadingState
}

// Started reports whether the learner has submitted anything that counts.
func (a *Attempt) Started() bool {
	return a != nil && (a.Attempts > 0 || a.Resolved)
}

// ChoiceState records the picked option.
type ChoiceState struct {
	Selected int
	Chosen   *bool
}

// BlankResult is the judgement of one blank.
type BlankResult struct {
	Verdict textmatch.Verdict
	Correct bool
	Locked  bool

	// Reveal is the answer shown on a blank locked as wrong.
	Reveal string
}

// BlanksState holds the submitted values and which blanks are locked.
type BlanksState struct {
	Values  []string
	Results []BlankResult
}

// Locked reports whether blank i may no longer be edited.
func (b *BlanksState) Locked(i int) bool {
	return i >= 0 && i < len(b.Results) && b.Results[i].Locked
}

// Flash marks a wrong pair for display until it is cleared.
type Flash struct {
	Left  string
	Right string
	Seq   int
}

// MatchingState tracks matched pairs and the current selection.
type MatchingState struct {
	Lefts   []string
	Rights  []string
	Matched map[string]string

	SelectedLeft  string
	SelectedRight string

	Flash         *Flash
	Seq           int
	WrongAttempts int
}

// IsLeftMatched reports whether left is already locked.
func (m *MatchingState) IsLeftMatched(left string) bool {
	_, ok := m.Matched[left]
	return ok
}

// IsRightMatched reports whether every copy of right in the column is
// locked. Two lefts may share a right value.
func (m *MatchingState) IsRightMatched(right string) bool {
	return m.matchedCount(right) >= countOf(m.Rights, right)
}

// RightMatchedAt reports whether the right item at column position i is
// locked. Copies of a repeated value lock top to bottom.
func (m *MatchingState) RightMatchedAt(i int) bool {
	if i < 0 || i >= len(m.Rights) {
		return false
	}
	v := m.Rights[i]
	return m.matchedCount(v) > countOf(m.Rights[:i], v)
}

func (m *MatchingState) matchedCount(right string) int {
	n := 0
	for _, r := range m.Matched {
		if r == right {
			n++
		}
	}
	return n
}

func countOf(values []string, v string) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}

// OrderingState holds the remaining pool and the built sequence.
type OrderingState struct {
	Pool  []string
	Built []string
}

// TextState holds the last free-text submission.
type TextState struct {
	Last        string
	LastVerdict *textmatch.Verdict
}

// ReadingState walks the sub-questions of a reading item.
type ReadingState struct {
	Sub            int
	Current        *Attempt
	Results        []bool
	CorrectAnswers int
	Total          int

	// AwaitingContinue is set between a resolved sub-question and the next.
	AwaitingContinue bool

	shuffler exercise.Shuffler
}
