package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Import batches and LLM request rows share one ordering so the catalog
// history and tutor usage can be interleaved. The counter lives in a
// single-row table and is bumped inside the writer's own transaction, so
// a rolled-back import does not consume a number.

const sequenceSchema = `CREATE TABLE IF NOT EXISTS global_sequence (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL
)`

const seedSequence = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`

// nextSequence allocates the next number within tx. The UPDATE is the
// transaction's first statement, which takes SQLite's write lock up front;
// concurrent writers queue on busy_timeout.
func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
