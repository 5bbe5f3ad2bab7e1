package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
)

// Loader fetches exercise sets by identifier.
type Loader interface {
	LoadSet(ctx context.Context, id string) (*exercise.Set, exercise.ShapeErrors, error)
}

// Tag identifies the context a scheduled action was created in. An action
// whose tag no longer matches the session is dropped.
type Tag struct {
	Generation int
	Question   int
	Seq        int
}

// Scheduled is a deferred action bound to a session context.
type Scheduled struct {
	Tag    Tag
	Kind   evaluate.DeferredKind
	Delay  time.Duration
	Action evaluate.Action
}

// Update is the result of a state transition the UI needs to render.
type Update struct {
	Outcome   evaluate.Outcome
	Phase     Phase
	Progress  Progress
	Score     int
	Scheduled *Scheduled
}

// View is a snapshot of the current question for rendering.
type View struct {
	SetID      string
	SetTitle   string
	Generation int
	Question   exercise.Question
	Attempt    *evaluate.Attempt
	Index      int
	Phase      Phase
	Progress   Progress
	Score      int
	Feedback   string
	Hint       string
	IsLast     bool
}

// Options configures a Controller.
type Options struct {
	Registry *evaluate.Registry

	// Shuffler orders questions and per-question pools. Nil keeps the
	// authored order.
	Shuffler exercise.Shuffler

	Logger *slog.Logger
	Now    func() time.Time
}

// Controller owns the session state and serializes every transition.
type Controller struct {
	mu      sync.Mutex
	loading atomic.Bool

	loader   Loader
	registry *evaluate.Registry
	shuffler exercise.Shuffler
	logger   *slog.Logger
	now      func() time.Time

	state *State

	// generation outlives individual sessions so tags from a previous
	// set never match a new one.
	generation int
}

// NewController creates an idle controller.
func NewController(loader Loader, opts Options) *Controller {
	if opts.Registry == nil {
		opts.Registry = evaluate.NewRegistry(evaluate.DefaultPolicy())
	}
	if opts.Shuffler == nil {
		opts.Shuffler = exercise.NoShuffle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		loader:   loader,
		registry: opts.Registry,
		shuffler: opts.Shuffler,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Loading reports whether a Load is in flight.
func (c *Controller) Loading() bool {
	return c.loading.Load()
}

// Load fetches a set and starts a session on its first question. On
// failure the current session is left as it was.
func (c *Controller) Load(ctx context.Context, id string) error {
	if !c.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer c.loading.Store(false)

	set, skipped, err := c.loader.LoadSet(ctx, id)
	if err != nil {
		c.logger.Warn("set load failed", "set_id", id, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.start(set)
	for _, se := range skipped {
		c.logger.Warn("question skipped",
			"session_id", c.state.ID,
			"set_id", set.ID,
			"index", se.Index,
			"kind", se.Kind,
			"field", se.Field,
			"reason", se.Reason,
		)
	}
	c.logger.Info("session loaded",
		"session_id", c.state.ID,
		"set_id", set.ID,
		"questions", len(set.Questions),
		"total", c.state.TotalFlat,
	)
	return c.present(0)
}

// start replaces the state with a fresh pass over set. Caller holds mu.
func (c *Controller) start(set *exercise.Set) {
	c.generation++
	order := exercise.Permutation(len(set.Questions), c.shuffler)
	c.state = NewState(set, order, uuid.NewString(), c.generation, c.now())
}

// PresentQuestion shows the question at presentation position i with a
// fresh attempt. Only later questions may be presented, or the current
// one while nothing has been submitted for it, so a question never
// scores twice.
func (c *Controller) PresentQuestion(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s == nil {
		return ErrNoSession
	}
	if s.Phase == PhaseEvaluating || s.Phase == PhaseSummarizing {
		return fmt.Errorf("%w: %s", ErrNotAccepting, s.Phase)
	}
	if i < s.Index || (i == s.Index && (s.Attempt.Started() || s.points > 0)) {
		return fmt.Errorf("%w: question %d already attempted", ErrNotAccepting, i)
	}
	return c.present(i)
}

func (c *Controller) present(i int) error {
	s := c.state
	q, ok := s.Question(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	s.Index = i
	s.SubIndex = 0
	s.points = 0
	s.Attempt = c.registry.Begin(q, c.shuffler)
	s.Feedback, s.Hint = "", ""
	s.LastOutcome = nil
	s.Phase = PhasePresenting
	return nil
}

// SubmitAnswer applies a learner action to the current question.
func (c *Controller) SubmitAnswer(action evaluate.Action) (Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s == nil {
		return Update{}, ErrNoSession
	}
	if !s.Phase.acceptsAnswers() {
		return Update{}, fmt.Errorf("%w: %s", ErrNotAccepting, s.Phase)
	}
	q, _ := s.Current()

	prev := s.Phase
	s.Phase = PhaseEvaluating
	out, err := c.registry.Apply(q, s.Attempt, action)
	if err != nil {
		s.Phase = prev
		return Update{}, err
	}

	s.Score += out.ScoreDelta
	s.points += out.ScoreDelta
	s.syncSubIndex()

	switch {
	case out.MayAdvance:
		s.Phase = PhaseAdvancing
		s.Results = append(s.Results, QuestionResult{
			Position: s.Order[s.Index],
			Kind:     q.Kind,
			Prompt:   q.Prompt,
			Correct:  out.Correct,
			Points:   s.points,
			Attempts: s.Attempt.Attempts,
		})
	case out.SubResolved:
		s.Phase = PhaseAdvancing
	case out.Retry:
		s.Phase = PhaseRetryPending
	default:
		s.Phase = prev
	}

	if out.Evaluated {
		o := out
		s.LastOutcome = &o
		if out.Feedback != "" {
			s.Feedback, s.Hint = out.Feedback, out.Hint
		}
		c.logger.Debug("answer evaluated",
			"session_id", s.ID,
			"set_id", s.Set.ID,
			"index", s.Index,
			"kind", q.Kind,
			"correct", out.Correct,
			"retry", out.Retry,
			"score", s.Score,
		)
	}

	up := Update{
		Outcome:  out,
		Phase:    s.Phase,
		Progress: ProgressOf(s),
		Score:    s.Score,
	}
	if out.Deferred != nil {
		s.seq++
		if out.Deferred.Kind == evaluate.DeferClearFeedback {
			s.feedbackSeq = s.seq
		}
		up.Scheduled = &Scheduled{
			Tag:    Tag{Generation: s.Generation, Question: s.Index, Seq: s.seq},
			Kind:   out.Deferred.Kind,
			Delay:  out.Deferred.Delay,
			Action: out.Deferred.Action,
		}
	}
	return up, nil
}

// Next leaves the Advancing phase: to the next reading sub-question, the
// next question, or the summary.
func (c *Controller) Next() (Phase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s == nil {
		return PhaseIdle, ErrNoSession
	}
	if s.Phase != PhaseAdvancing {
		return s.Phase, fmt.Errorf("%w: %s", ErrNotAccepting, s.Phase)
	}

	if !s.Attempt.Resolved {
		q, _ := s.Current()
		if _, err := c.registry.Apply(q, s.Attempt, evaluate.ContinueReading{}); err != nil {
			return s.Phase, err
		}
		s.syncSubIndex()
		s.Feedback, s.Hint = "", ""
		s.LastOutcome = nil
		s.Phase = PhasePresenting
		return s.Phase, nil
	}

	if !s.IsLast() {
		if err := c.present(s.Index + 1); err != nil {
			return s.Phase, err
		}
		return s.Phase, nil
	}

	s.Phase = PhaseSummarizing
	s.EndTime = c.now()
	sum := BuildSummary(s)
	c.logger.Info("session summarized",
		"session_id", s.ID,
		"set_id", s.Set.ID,
		"score", sum.Score,
		"total", sum.Total,
		"percentage", sum.Percentage,
		"tier", sum.Tier.String(),
	)
	return s.Phase, nil
}

// Progress returns the position of the current scoreable question.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ProgressOf(c.state)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return PhaseIdle
	}
	return c.state.Phase
}

// Current returns a snapshot of the question being played.
func (c *Controller) Current() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s == nil {
		return View{}, ErrNoSession
	}
	q, _ := s.Current()
	return View{
		SetID:      s.Set.ID,
		SetTitle:   s.Set.Title,
		Generation: s.Generation,
		Question:   q,
		Attempt:    s.Attempt,
		Index:      s.Index,
		Phase:      s.Phase,
		Progress:   ProgressOf(s),
		Score:      s.Score,
		Feedback:   s.Feedback,
		Hint:       s.Hint,
		IsLast:     s.IsLast(),
	}, nil
}

// ScoreSummary returns the summary of a finished session.
func (c *Controller) ScoreSummary() (*Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil {
		return nil, ErrNoSession
	}
	if c.state.Phase != PhaseSummarizing {
		return nil, fmt.Errorf("%w: %s", ErrNotFinished, c.state.Phase)
	}
	return BuildSummary(c.state), nil
}

// Retry replays the current set in a new order with a zero score.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil {
		return ErrNoSession
	}
	set := c.state.Set
	c.start(set)
	c.logger.Info("session restarted", "session_id", c.state.ID, "set_id", set.ID)
	return c.present(0)
}

// GoHome ends the session and returns to Idle.
func (c *Controller) GoHome() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = nil
}

// Fire runs a scheduled action if its tag still matches the session. It
// reports whether the action was applied.
func (c *Controller) Fire(sc Scheduled) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s == nil || sc.Tag.Generation != c.generation || sc.Tag.Question != s.Index {
		c.logger.Debug("stale deferred action dropped", "tag", sc.Tag)
		return false
	}

	switch sc.Kind {
	case evaluate.DeferClearFeedback:
		if sc.Tag.Seq != s.feedbackSeq {
			c.logger.Debug("stale deferred action dropped", "session_id", s.ID, "tag", sc.Tag)
			return false
		}
		s.Feedback, s.Hint = "", ""
		return true

	case evaluate.DeferClearFlash:
		q, _ := s.Current()
		if _, err := c.registry.Apply(q, s.Attempt, sc.Action); err != nil {
			c.logger.Debug("deferred action rejected", "session_id", s.ID, "error", err)
			return false
		}
		return true
	}
	return false
}
