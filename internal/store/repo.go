package store

import (
	"context"
	"time"
)

// Document kinds stored in the catalog.
const (
	KindSet        = "set"
	KindTopic      = "topic"
	KindTopicIndex = "topic_index"
)

// Document is one content file held in the catalog.
type Document struct {
	Path        string
	Kind        string
	ID          string
	Title       string
	Description string
	Questions   int
	FlatCount   int
	Body        []byte
	BatchID     string
	UpdatedAt   time.Time
}

// ImportBatch records one run of the importer.
type ImportBatch struct {
	ID         string
	Sequence   int64
	Source     string
	Sets       int
	Topics     int
	ImportedAt time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage sums the tokens of successful requests.
	LLMUsage(ctx context.Context) (requests, inputTokens, outputTokens int, err error)
}
