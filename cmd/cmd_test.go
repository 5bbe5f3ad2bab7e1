package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/config"
	"github.com/englifish/englifish/internal/content"
)

const tinySet = `{"title":"Tiny","questions":[{"type":"true_false","question":"Cats bark.","answer":false}]}`

// execute runs a fresh command tree in an isolated home.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, k := range []string{"ENGLIFISH_DB", "ENGLIFISH_CONTENT_SOURCE", "ENGLIFISH_CONTENT_DIR", "ENGLIFISH_CONTENT_URL", "ENGLIFISH_LLM_ENABLED"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "englifish (devel)\n", out)
}

func TestSets_Bundled(t *testing.T) {
	out, err := execute(t, "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "present-simple")
	assert.Contains(t, out, "Present Simple")
	assert.Contains(t, out, "3 sets")
}

func TestSets_ContentDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model", "tiny.json"), tinySet)

	out, err := execute(t, "sets", "--content-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "tiny")
	assert.Contains(t, out, "1 sets")
}

func TestGrammar(t *testing.T) {
	out, err := execute(t, "grammar")
	require.NoError(t, err)
	assert.Contains(t, out, "present-simple")
	assert.Contains(t, out, "past-simple")

	out, err = execute(t, "grammar", "past-simple.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Past Simple")

	_, err = execute(t, "grammar", "future-perfect")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	writeFile(t, good, tinySet)

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "1 questions, 1 points")

	partial := filepath.Join(dir, "partial.json")
	writeFile(t, partial, `{"title":"Partial","questions":[
		{"type":"true_false","question":"Cats bark.","answer":false},
		{"type":"true_false","question":"Dogs bark."}]}`)
	empty := filepath.Join(dir, "empty.json")
	writeFile(t, empty, `{"title":"Empty","questions":[]}`)

	out, err = execute(t, "validate", good, partial, empty, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, errInvalidContent)
	assert.Contains(t, out, "1 questions would be skipped")
	assert.Contains(t, out, "3 of 4 files have errors")
}

func TestImportThenPlayFromStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model", "tiny.json"), tinySet)
	db := filepath.Join(t.TempDir(), "catalog.db")

	out, err := execute(t, "import", dir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 sets")

	out, err = execute(t, "sets", "--source", "store", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported from "+dir)
	assert.Contains(t, out, "tiny")
	assert.Contains(t, out, "1 sets")
}

func TestPlay_RejectsBadID(t *testing.T) {
	_, err := execute(t, "play", "../secrets")
	assert.ErrorIs(t, err, content.ErrInvalidID)
}

func TestLLMStatus_Disabled(t *testing.T) {
	out, err := execute(t, "llm", "status", "--no-tutor")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
}

func TestLLMUsage_Empty(t *testing.T) {
	out, err := execute(t, "llm", "usage", "--db", filepath.Join(t.TempDir(), "u.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{
		"--content-dir", dir, "--max-attempts", "3", "--no-shuffle", "--log-format", "json",
	}))
	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, config.SourceFile, cfg.Content.Source)
	assert.Equal(t, dir, cfg.Content.Dir)
	assert.Equal(t, 3, cfg.Quiz.MaxAttempts)
	assert.False(t, cfg.Quiz.Shuffle)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Policy().MaxTextAttempts)
	assert.Zero(t, cfg.Policy().MaxBlankAttempts)
}

func TestLoadConfig_InvalidSource(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--source", "ftp"}))
	_, err := loadConfig(root)
	assert.Error(t, err)
}
