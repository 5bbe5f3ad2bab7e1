package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/englifish/englifish/internal/store"
)

// LoggingProvider records every request to the structured log and, when
// a repo is set, to the llm_requests table.
type LoggingProvider struct {
	inner     Provider
	logger    *slog.Logger
	eventRepo store.EventRepo
}

// WithLogging wraps p. repo may be nil.
func WithLogging(p Provider, logger *slog.Logger, repo store.EventRepo) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, logger: logger, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   string(PurposeFrom(ctx)),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}

	attrs := []any{
		"purpose", data.Purpose,
		"model", data.Model,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed", append(attrs, "error", err)...)
	} else {
		l.logger.Debug("llm request", attrs...)
	}

	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.Warn("record llm request", "error", logErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
