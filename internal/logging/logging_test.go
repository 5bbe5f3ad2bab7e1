package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("session loaded", "set", "present-simple", "questions", 6)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "session loaded", rec["msg"])
	assert.Equal(t, "present-simple", rec["set"])
	assert.EqualValues(t, 6, rec["questions"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "text")
	require.NoError(t, err)

	logger.Debug("answer evaluated", "kind", "ordering")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "kind=ordering")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "verbose", "text")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "englifish.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("one\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("two\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(t.Context(), slog.LevelError))
}
