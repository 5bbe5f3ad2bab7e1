// Package evaluate turns learner actions on a question into verdicts,
// score deltas and advance signals. Evaluators hold no state of their
// own; everything mutable lives in the Attempt passed to them.
package evaluate

import (
	"fmt"
	"time"

	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
)

// Evaluator implements one exercise kind.
type Evaluator interface {
	Kind() exercise.Kind

	// Begin returns fresh attempt state for q. Pools and columns that the
	// learner picks from are shuffled with sh.
	Begin(q exercise.Question, sh exercise.Shuffler) *Attempt

	// Apply consumes one learner action and mutates att.
	Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error)
}

// Outcome is the result of applying one action.
type Outcome struct {
	// Evaluated is set when an answer (or a matching pair, or a reading
	// sub-question) was judged. UI-only moves leave it false.
	Evaluated bool
	Correct   bool

	// ScoreDelta is added to the session score. Each point is emitted
	// exactly once per attempt.
	ScoreDelta int

	// MayAdvance is set once the whole question is resolved.
	MayAdvance bool

	// Retry means the learner may resubmit the same question.
	Retry bool

	// SubResolved is set when a reading sub-question resolved and the
	// next one is waiting for ContinueReading.
	SubResolved bool

	Feedback string
	Hint     string
	Verdict  *textmatch.Verdict
	Blanks   []BlankResult

	// Deferred asks the caller to apply an action later.
	Deferred *Deferred
}

// DeferredKind classifies delayed work.
type DeferredKind int

const (
	// DeferClearFlash resets the visual state of a wrong matching pair.
	DeferClearFlash DeferredKind = iota + 1
	// DeferClearFeedback hides a transient feedback message.
	DeferClearFeedback
)

// Deferred is a request to run Action after Delay, provided the attempt
// it belongs to is still current.
type Deferred struct {
	Kind   DeferredKind
	Delay  time.Duration
	Action Action
}

// Policy holds the tunable limits of the evaluators. MaxBlankAttempts of
// zero lets a close blank be retried until it is right or no longer close.
type Policy struct {
	MaxTextAttempts    int
	MaxBlankAttempts   int
	MatchingResetDelay time.Duration
	TemporaryFeedback  time.Duration
	RetryFeedback      time.Duration
}

// DefaultPolicy returns the standard limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxTextAttempts:    2,
		MaxBlankAttempts:   0,
		MatchingResetDelay: 1500 * time.Millisecond,
		TemporaryFeedback:  3 * time.Second,
		RetryFeedback:      8 * time.Second,
	}
}

// Registry dispatches to the evaluator of each kind.
type Registry struct {
	policy     Policy
	evaluators map[exercise.Kind]Evaluator
}

// NewRegistry builds a registry with an evaluator for every kind.
func NewRegistry(p Policy) *Registry {
	if p.MaxTextAttempts < 1 {
		p.MaxTextAttempts = 1
	}
	if p.MaxBlankAttempts < 0 {
		p.MaxBlankAttempts = 0
	}

	r := &Registry{policy: p, evaluators: make(map[exercise.Kind]Evaluator)}
	r.Register(choiceEvaluator{kind: exercise.KindMultipleChoice})
	r.Register(choiceEvaluator{kind: exercise.KindTrueFalse})
	r.Register(blanksEvaluator{policy: p})
	r.Register(matchingEvaluator{policy: p})
	r.Register(orderingEvaluator{})
	r.Register(shortAnswerEvaluator{policy: p})
	r.Register(readingEvaluator{registry: r})
	return r
}

// Register installs or replaces the evaluator for e.Kind().
func (r *Registry) Register(e Evaluator) {
	r.evaluators[e.Kind()] = e
}

// Policy returns the limits the registry was built with.
func (r *Registry) Policy() Policy {
	return r.policy
}

// For returns the evaluator of kind k.
func (r *Registry) For(k exercise.Kind) (Evaluator, error) {
	e, ok := r.evaluators[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return e, nil
}

// Begin starts an attempt on q. Unknown kinds yield nil.
func (r *Registry) Begin(q exercise.Question, sh exercise.Shuffler) *Attempt {
	if sh == nil {
		sh = exercise.NoShuffle
	}
	e, err := r.For(q.Kind)
	if err != nil {
		return nil
	}
	return e.Begin(q, sh)
}

// Apply forwards action to the evaluator of q.
func (r *Registry) Apply(q exercise.Question, att *Attempt, action Action) (Outcome, error) {
	if att == nil {
		return Outcome{}, ErrNoAttempt
	}
	e, err := r.For(q.Kind)
	if err != nil {
		return Outcome{}, err
	}
	return e.Apply(q, att, action)
}
