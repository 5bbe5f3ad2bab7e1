package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection of the local content catalog.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Catalog returns the content catalog backed by this store.
func (s *Store) Catalog() *Catalog {
	return &Catalog{db: s.db}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS import_batches (
		id          TEXT PRIMARY KEY,
		sequence    INTEGER NOT NULL,
		source      TEXT NOT NULL,
		sets        INTEGER NOT NULL DEFAULT 0,
		topics      INTEGER NOT NULL DEFAULT 0,
		imported_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		path           TEXT PRIMARY KEY,
		kind           TEXT NOT NULL,
		doc_id         TEXT NOT NULL,
		title          TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		question_count INTEGER NOT NULL DEFAULT 0,
		flat_count     INTEGER NOT NULL DEFAULT 0,
		body           BLOB NOT NULL,
		batch_id       TEXT NOT NULL REFERENCES import_batches(id),
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS documents_kind ON documents(kind, doc_id)`,
	sequenceSchema,
	seedSequence,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		sequence      INTEGER PRIMARY KEY,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DataDir resolves the application data directory:
// 1. $XDG_DATA_HOME/englifish
// 2. ~/.local/share/englifish
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "englifish"), nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ENGLIFISH_DB environment variable
// 2. <DataDir>/englifish.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ENGLIFISH_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "englifish.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
