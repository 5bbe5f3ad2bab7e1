package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/grammar"
)

// SetInfo describes one set of the catalog.
type SetInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Questions   int    `json:"questions"`
	Total       int    `json:"total"`
}

// Library resolves identifiers against a Source and decodes what it
// fetches.
type Library struct {
	src    Source
	logger *slog.Logger

	topicLoading atomic.Bool

	mu    sync.Mutex
	index *grammar.Index
}

// NewLibrary creates a library over src.
func NewLibrary(src Source, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{src: src, logger: logger}
}

// LoadSet fetches and decodes an exercise set. Questions that fail their
// shape check are returned as skipped; the error is a *LoadError.
func (l *Library) LoadSet(ctx context.Context, id string) (*exercise.Set, exercise.ShapeErrors, error) {
	data, rid, err := l.RawSet(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	set, skipped, err := exercise.Decode(rid, data)
	if err != nil {
		return nil, skipped, &LoadError{ID: rid, Err: err}
	}
	return set, skipped, nil
}

// RawSet returns the undecoded set document and its resolved id.
func (l *Library) RawSet(ctx context.Context, id string) ([]byte, string, error) {
	rid, err := ResolveID(id)
	if err != nil {
		return nil, "", &LoadError{ID: id, Err: err}
	}
	data, err := l.src.Fetch(ctx, SetPath(rid))
	if err != nil {
		return nil, rid, &LoadError{ID: rid, Err: err}
	}
	return data, rid, nil
}

// ListSets returns every set the source can enumerate. Sets that fail to
// load are logged and left out.
func (l *Library) ListSets(ctx context.Context) ([]SetInfo, error) {
	lister, ok := l.src.(Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	names, err := lister.List(ctx, setDir)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	var out []SetInfo
	for _, name := range names {
		if name == indexFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		set, _, err := l.LoadSet(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn("set left out of catalog", "file", name, "error", err)
			continue
		}
		out = append(out, SetInfo{
			ID:          strings.TrimSuffix(name, ".json"),
			Title:       set.Title,
			Description: set.Description,
			Questions:   len(set.Questions),
			Total:       set.TotalFlat(),
		})
	}
	return out, nil
}

// TopicIndex returns the grammar topic index. It is fetched once.
func (l *Library) TopicIndex(ctx context.Context) (*grammar.Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index != nil {
		return l.index, nil
	}

	data, err := l.src.Fetch(ctx, IndexPath())
	if err != nil {
		return nil, &LoadError{ID: IndexPath(), Err: err}
	}
	ix, err := grammar.DecodeIndex(data)
	if err != nil {
		return nil, &LoadError{ID: IndexPath(), Err: err}
	}
	l.index = ix
	return ix, nil
}

// LoadTopic fetches one grammar topic. Only one topic load may be in
// flight; a second returns ErrTopicLoadInProgress.
func (l *Library) LoadTopic(ctx context.Context, id string) (*grammar.Topic, error) {
	if !l.topicLoading.CompareAndSwap(false, true) {
		return nil, ErrTopicLoadInProgress
	}
	defer l.topicLoading.Store(false)

	rid, err := ResolveID(id)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	info := grammar.TopicInfo{ID: rid}
	ix, err := l.TopicIndex(ctx)
	switch {
	case err == nil:
		if ti, ok := ix.Find(rid); ok {
			info = ti
		}
	case errors.Is(err, ErrNotFound):
		// Topics can be read without an index.
	default:
		return nil, err
	}

	data, err := l.src.Fetch(ctx, TopicPath(rid))
	if err != nil {
		return nil, &LoadError{ID: rid, Err: err}
	}
	t, err := grammar.DecodeTopic(info, data)
	if err != nil {
		return nil, &LoadError{ID: rid, Err: err}
	}
	return t, nil
}

// RawTopic returns the undecoded topic document.
func (l *Library) RawTopic(ctx context.Context, id string) ([]byte, error) {
	rid, err := ResolveID(id)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	data, err := l.src.Fetch(ctx, TopicPath(rid))
	if err != nil {
		return nil, &LoadError{ID: rid, Err: err}
	}
	return data, nil
}

// RawIndex returns the undecoded grammar index.
func (l *Library) RawIndex(ctx context.Context) ([]byte, error) {
	data, err := l.src.Fetch(ctx, IndexPath())
	if err != nil {
		return nil, &LoadError{ID: IndexPath(), Err: err}
	}
	return data, nil
}
