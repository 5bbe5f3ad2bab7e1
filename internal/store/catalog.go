package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/englifish/englifish/internal/content"
)

// Catalog keeps imported content documents so sets can be played without
// the original directory or network. It is a content.Source and
// content.Lister.
type Catalog struct {
	db *sql.DB
}

// Fetch returns the document stored at p.
func (c *Catalog) Fetch(ctx context.Context, p string) ([]byte, error) {
	var body []byte
	err := c.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, p).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", p, content.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	return body, nil
}

// List returns the file names stored below dir.
func (c *Catalog) List(ctx context.Context, dir string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		if path.Dir(p) == dir {
			names = append(names, path.Base(p))
		}
	}
	return names, rows.Err()
}

// Sets returns the stored sets without their bodies.
func (c *Catalog) Sets(ctx context.Context) ([]Document, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path, kind, doc_id, title, description, question_count, flat_count, batch_id, updated_at
		FROM documents WHERE kind = ? ORDER BY doc_id`, KindSet)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Path, &d.Kind, &d.ID, &d.Title, &d.Description, &d.Questions, &d.FlatCount, &d.BatchID, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Put stores docs as one import batch, replacing documents with the same
// path.
func (c *Catalog) Put(ctx context.Context, source string, docs []Document) (*ImportBatch, error) {
	batch := &ImportBatch{
		ID:         uuid.NewString(),
		Source:     source,
		ImportedAt: time.Now().UTC(),
	}
	for _, d := range docs {
		switch d.Kind {
		case KindSet:
			batch.Sets++
		case KindTopic:
			batch.Topics++
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if batch.Sequence, err = nextSequence(ctx, tx); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO import_batches (id, sequence, source, sets, topics, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.Sequence, batch.Source, batch.Sets, batch.Topics, batch.ImportedAt); err != nil {
		return nil, fmt.Errorf("save import batch: %w", err)
	}

	for _, d := range docs {
		_, err := tx.ExecContext(ctx, `INSERT INTO documents
			(path, kind, doc_id, title, description, question_count, flat_count, body, batch_id, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				kind = excluded.kind,
				doc_id = excluded.doc_id,
				title = excluded.title,
				description = excluded.description,
				question_count = excluded.question_count,
				flat_count = excluded.flat_count,
				body = excluded.body,
				batch_id = excluded.batch_id,
				updated_at = excluded.updated_at`,
			d.Path, d.Kind, d.ID, d.Title, d.Description, d.Questions, d.FlatCount, d.Body, batch.ID, batch.ImportedAt)
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", d.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return batch, nil
}

// LastImport returns the most recent import batch, or nil if none exist.
func (c *Catalog) LastImport(ctx context.Context) (*ImportBatch, error) {
	var b ImportBatch
	err := c.db.QueryRowContext(ctx, `SELECT id, sequence, source, sets, topics, imported_at
		FROM import_batches ORDER BY sequence DESC LIMIT 1`).
		Scan(&b.ID, &b.Sequence, &b.Source, &b.Sets, &b.Topics, &b.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last import: %w", err)
	}
	return &b, nil
}

// ImportLibrary copies every set and grammar topic that lib can enumerate
// into the catalog. Documents that fail to decode are logged and skipped.
func (c *Catalog) ImportLibrary(ctx context.Context, lib *content.Library, source string, logger *slog.Logger) (*ImportBatch, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sets, err := lib.ListSets(ctx)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, info := range sets {
		body, _, err := lib.RawSet(ctx, info.ID)
		if err != nil {
			logger.Warn("set not imported", "set_id", info.ID, "error", err)
			continue
		}
		docs = append(docs, Document{
			Path:        content.SetPath(info.ID),
			Kind:        KindSet,
			ID:          info.ID,
			Title:       info.Title,
			Description: info.Description,
			Questions:   info.Questions,
			FlatCount:   info.Total,
			Body:        body,
		})
	}

	ix, err := lib.TopicIndex(ctx)
	switch {
	case errors.Is(err, content.ErrNotFound):
		logger.Info("no grammar index to import")
	case err != nil:
		return nil, err
	default:
		indexBody, err := lib.RawIndex(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			Path:  content.IndexPath(),
			Kind:  KindTopicIndex,
			ID:    "index",
			Title: "Grammar topics",
			Body:  indexBody,
		})
		for _, ti := range ix.Topics {
			if _, err := lib.LoadTopic(ctx, ti.ID); err != nil {
				logger.Warn("topic not imported", "topic_id", ti.ID, "error", err)
				continue
			}
			body, err := lib.RawTopic(ctx, ti.ID)
			if err != nil {
				logger.Warn("topic not imported", "topic_id", ti.ID, "error", err)
				continue
			}
			docs = append(docs, Document{
				Path:  content.TopicPath(ti.ID),
				Kind:  KindTopic,
				ID:    ti.ID,
				Title: ti.Title,
				Body:  body,
			})
		}
	}

	if len(docs) == 0 {
		return nil, errors.New("nothing to import")
	}
	return c.Put(ctx, source, docs)
}
