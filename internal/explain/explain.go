// Package explain asks an LLM why a learner's answer was wrong.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/englifish/englifish/internal/llm"
)

// ErrNoAnswer is returned when there is nothing to explain.
var ErrNoAnswer = errors.New("explain: no learner answer")

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 300, Temperature: 0.3, Timeout: 15 * time.Second}
}

// Input describes a missed question.
type Input struct {
	Kind      string
	Prompt    string
	Answer    string
	Correct   string
	Rationale string
}

// Explanation is the generated text shown under the feedback.
type Explanation struct {
	Text string
	Tip  string
}

// Key identifies the question an explanation belongs to. A result whose
// key no longer matches the current question is stale.
type Key struct {
	Generation int
	Question   int
}

// Schema is the response shape requested from the provider.
var Schema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why a learner's answer to an English exercise was wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two or three plain sentences on why the answer is wrong and the rule that applies",
				"minLength":   1,
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short memory aid",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly English teacher. A learner missed a quiz question. Explain the mistake briefly in plain English at A2-B1 level. Do not repeat the whole question. Use plain text, no markdown.`

type output struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Service generates explanations. Only one request is in flight; a new
// request cancels the previous one.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	pending *result
}

type result struct {
	key Key
	exp *Explanation
	err error
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Explain generates an explanation synchronously.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if strings.TrimSpace(in.Answer) == "" {
		return nil, ErrNoAnswer
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Explanation{Text: strings.TrimSpace(out.Explanation), Tip: strings.TrimSpace(out.Tip)}, nil
}

// Request starts an explanation in the background for key, replacing
// any request still running.
func (s *Service) Request(ctx context.Context, key Key, in Input) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.pending = nil
	s.mu.Unlock()

	go func() {
		defer cancel()
		exp, err := s.Explain(ctx, in)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			s.logger.Warn("explanation failed", "generation", key.Generation, "question", key.Question, "error", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = &result{key: key, exp: exp, err: err}
	}()
}

// Consume returns the finished result for key. ok is false while the
// request is running. A result for another key is discarded.
func (s *Service) Consume(key Key) (exp *Explanation, err error, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, nil, false
	}
	r := s.pending
	s.pending = nil
	if r.key != key {
		s.logger.Debug("stale explanation dropped", "generation", r.key.Generation, "question", r.key.Question)
		return nil, nil, false
	}
	return r.exp, r.err, true
}

// Cancel stops any running request.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = nil
}

func buildUserMessage(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exercise type: %s\n", in.Kind)
	fmt.Fprintf(&b, "Question: %s\n", in.Prompt)
	fmt.Fprintf(&b, "Learner answered: %s\n", in.Answer)
	fmt.Fprintf(&b, "Correct answer: %s\n", in.Correct)
	if in.Rationale != "" {
		fmt.Fprintf(&b, "Teacher's note: %s\n", in.Rationale)
	}
	return b.String()
}
