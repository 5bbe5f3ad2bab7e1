package llm

import (
	"context"
	"encoding/json"
)

// Provider generates tutor output. Implementations wrap one vendor SDK
// each; decorators add logging and resilience around them.
type Provider interface {
	// Generate sends req and returns its output. When req.Schema is set
	// the returned Content is JSON that has passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is one prompt for the tutor.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the vendor for structured output. Without
	// it Content carries the reply text unchanged.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the prompt.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the reply must satisfy. Name doubles as the
// vendor-side schema name and the validator cache key, e.g.
// "answer-explanation".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a finished generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns a vendor reply into a Response. A structured reply that
// was cut off at MaxTokens cannot be valid JSON, so it is reported as
// ErrMaxTokensExceeded rather than as a schema failure.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}
