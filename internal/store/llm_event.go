package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo records tutor requests in llm_requests.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin llm event: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO llm_requests
		(sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		data.Success, data.ErrorMessage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save llm event: %w", err)
	}
	return tx.Commit()
}

func (r *eventRepo) LLMUsage(ctx context.Context) (requests, inputTokens, outputTokens int, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM llm_requests WHERE success`).Scan(&requests, &inputTokens, &outputTokens)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("query LLM usage: %w", err)
	}
	return requests, inputTokens, outputTokens, nil
}
