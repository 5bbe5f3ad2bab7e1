package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/content"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALOnFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSequenceIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for range 5 {
		tx, err := s.DB().BeginTx(ctx, nil)
		require.NoError(t, err)
		n, err := nextSequence(ctx, tx)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.Greater(t, n, prev)
		prev = n
	}

	// A rolled-back allocation is handed out again.
	tx, err := s.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = nextSequence(ctx, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	tx, err = s.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	n, err := nextSequence(ctx, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, prev+1, n)
}

func TestCatalogPutFetchList(t *testing.T) {
	s := openTestStore(t)
	cat := s.Catalog()
	ctx := context.Background()

	batch, err := cat.Put(ctx, "test", []Document{
		{Path: "model/a.json", Kind: KindSet, ID: "a", Title: "A", Questions: 2, FlatCount: 3, Body: []byte(`{"v":1}`)},
		{Path: "grammar/t.json", Kind: KindTopic, ID: "t", Body: []byte(`{}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Sets)
	assert.Equal(t, 1, batch.Topics)

	body, err := cat.Fetch(ctx, "model/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(body))

	_, err = cat.Fetch(ctx, "model/missing.json")
	assert.ErrorIs(t, err, content.ErrNotFound)

	names, err := cat.List(ctx, "model")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, names)

	// Re-import replaces by path.
	_, err = cat.Put(ctx, "test", []Document{
		{Path: "model/a.json", Kind: KindSet, ID: "a", Title: "A2", Body: []byte(`{"v":2}`)},
	})
	require.NoError(t, err)

	sets, err := cat.Sets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "A2", sets[0].Title)

	last, err := cat.LastImport(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 1, last.Sets)
	assert.Zero(t, last.Topics)
	assert.Greater(t, last.Sequence, batch.Sequence)
}

func TestCatalogLastImportEmpty(t *testing.T) {
	s := openTestStore(t)
	last, err := s.Catalog().LastImport(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestImportLibraryServesOffline(t *testing.T) {
	s := openTestStore(t)
	cat := s.Catalog()
	ctx := context.Background()

	src := content.NewFSSource(fstest.MapFS{
		"model/tiny.json":    {Data: []byte(`{"title":"Tiny","questions":[{"type":"short_answer","question":"?","correctAnswer":"x"}]}`)},
		"model/bad.json":     {Data: []byte(`{"questions":[]}`)},
		"grammar/index.json": {Data: []byte(`{"grammarTopics":[{"id":"v","title":"Verbs"},{"id":"gone","title":"Gone"}]}`)},
		"grammar/v.json":     {Data: []byte(`{"sections":[{"title":"S"}]}`)},
	})
	batch, err := cat.ImportLibrary(ctx, content.NewLibrary(src, nil), "memfs", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Sets)
	assert.Equal(t, 1, batch.Topics)

	lib := content.NewLibrary(cat, nil)
	set, _, err := lib.LoadSet(ctx, "tiny")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", set.Title)

	infos, err := lib.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	topic, err := lib.LoadTopic(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "Verbs", topic.Title)
}

func TestEventRepoLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "explanation",
		InputTokens: 10, OutputTokens: 5, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Success: false, ErrorMessage: "boom",
	}))

	n, in, out, err := repo.LLMUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 10, in)
	assert.Equal(t, 5, out)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENGLIFISH_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "englifish", "englifish.db"), p)
	assert.DirExists(t, filepath.Dir(p))

	custom := filepath.Join(dir, "x", "c.db")
	t.Setenv("ENGLIFISH_DB", custom)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, custom, p)
}
