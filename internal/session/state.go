package session

import (
	"time"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
)

// Phase is the current phase of a session.
type Phase int

const (
	PhaseIdle         Phase = iota // No set loaded
	PhaseLoaded                    // Set loaded, nothing presented yet
	PhasePresenting                // Waiting for the learner
	PhaseEvaluating                // An action is being applied
	PhaseRetryPending              // Judged, learner may resubmit
	PhaseAdvancing                 // Resolved, waiting for Next
	PhaseSummarizing               // All questions done
)

var phaseNames = [...]string{
	PhaseIdle:         "idle",
	PhaseLoaded:       "loaded",
	PhasePresenting:   "presenting",
	PhaseEvaluating:   "evaluating",
	PhaseRetryPending: "retry_pending",
	PhaseAdvancing:    "advancing",
	PhaseSummarizing:  "summarizing",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// acceptsAnswers reports whether SubmitAnswer is allowed in this phase.
func (p Phase) acceptsAnswers() bool {
	return p == PhasePresenting || p == PhaseRetryPending
}

// QuestionResult records how one question was resolved.
type QuestionResult struct {
	// Position is the index of the question in the set file.
	Position int
	Kind     exercise.Kind
	Prompt   string
	Correct  bool
	Points   int
	Attempts int
}

// State is the runtime state of one pass through a set. It is owned by
// the Controller; callers get it read-only through View.
type State struct {
	// ID identifies the session in logs.
	ID string

	// Set is the loaded exercise set.
	Set *exercise.Set

	// Order maps presentation positions to indices into Set.Questions.
	Order []int

	// Index is the presentation position of the current question.
	Index int

	// SubIndex is the current sub-question of a reading item, else 0.
	SubIndex int

	// Score counts points earned so far.
	Score int

	// TotalFlat is the number of scoreable questions.
	TotalFlat int

	// prefix[i] is the flat count of the questions before position i.
	prefix []int

	// Attempt is the evaluator state of the current question.
	Attempt *evaluate.Attempt

	// Points earned on the current question so far.
	points int

	Phase      Phase
	Generation int

	// Results holds one entry per resolved question, in play order.
	Results []QuestionResult

	// Feedback and Hint are the messages of the last outcome. They are
	// cleared by a deferred ClearFeedback.
	Feedback string
	Hint     string

	// LastOutcome is the most recent evaluated outcome.
	LastOutcome *evaluate.Outcome

	// seq numbers scheduled actions within the session.
	seq int

	// feedbackSeq is the seq of the scheduled action allowed to clear the
	// current feedback.
	feedbackSeq int

	StartTime time.Time
	EndTime   time.Time
}

// NewState creates the state for playing set in the given order.
func NewState(set *exercise.Set, order []int, id string, generation int, now time.Time) *State {
	prefix := make([]int, len(order)+1)
	for i, qi := range order {
		prefix[i+1] = prefix[i] + set.Questions[qi].FlatCount()
	}
	return &State{
		ID:         id,
		Set:        set,
		Order:      order,
		TotalFlat:  prefix[len(order)],
		prefix:     prefix,
		Phase:      PhaseLoaded,
		Generation: generation,
		StartTime:  now,
	}
}

// Question returns the question at presentation position i.
func (s *State) Question(i int) (exercise.Question, bool) {
	if i < 0 || i >= len(s.Order) {
		return exercise.Question{}, false
	}
	return s.Set.Questions[s.Order[i]], true
}

// Current returns the question being played.
func (s *State) Current() (exercise.Question, bool) {
	return s.Question(s.Index)
}

// IsLast reports whether the current question is the final one.
func (s *State) IsLast() bool {
	return s.Index == len(s.Order)-1
}

// syncSubIndex mirrors the reading sub-question cursor into the state.
func (s *State) syncSubIndex() {
	s.SubIndex = 0
	if s.Attempt != nil && s.Attempt.Reading != nil {
		s.SubIndex = s.Attempt.Reading.Sub
	}
}
