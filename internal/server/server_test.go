package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/logging"
)

func newTestServer(t *testing.T, src content.Source) *httptest.Server {
	t.Helper()
	lib := content.NewLibrary(src, logging.Discard())
	srv := httptest.NewServer(New(lib, Options{
		AllowedOrigins: []string{"http://localhost:*"},
		Logger:         logging.Discard(),
		Version:        "test",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func bundled(t *testing.T) *httptest.Server {
	return newTestServer(t, content.NewFSSource(content.Bundled()))
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := bundled(t)
	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, string(body))
}

func TestListSets(t *testing.T) {
	srv := bundled(t)
	resp, body := get(t, srv.URL+"/api/sets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out struct {
		Sets []content.SetInfo `json:"sets"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	ids := make([]string, len(out.Sets))
	for i, s := range out.Sets {
		ids[i] = s.ID
		assert.NotEmpty(t, s.Title)
		assert.GreaterOrEqual(t, s.Total, s.Questions)
	}
	assert.ElementsMatch(t, []string{"present-simple", "past-simple", "vocabulary-animals"}, ids)
}

func TestGetSet(t *testing.T) {
	srv := bundled(t)

	resp, body := get(t, srv.URL+"/api/sets/present-simple.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Contains(t, doc, "questions")

	resp, body = get(t, srv.URL+"/api/sets/future-perfect")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"status":404`)

	resp, _ = get(t, srv.URL+"/api/sets/..hidden")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGrammar(t *testing.T) {
	srv := bundled(t)

	resp, body := get(t, srv.URL+"/api/grammar")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "grammarTopics")

	resp, body = get(t, srv.URL+"/api/grammar/past-simple")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "sections")

	resp, body = get(t, srv.URL+"/api/grammar/past-simple/text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "Past Simple")

	resp, _ = get(t, srv.URL+"/api/grammar/nope/text")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// fetchOnly has no List method.
type fetchOnly struct{ content.Source }

func TestListSets_Unsupported(t *testing.T) {
	srv := newTestServer(t, fetchOnly{content.NewFSSource(fstest.MapFS{})})
	resp, _ := get(t, srv.URL+"/api/sets")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestListSets_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, content.NewFSSource(fstest.MapFS{
		"model/.keep": {Data: []byte{}},
	}))
	resp, body := get(t, srv.URL+"/api/sets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"sets":[]}`, string(body))
}

func TestCORS(t *testing.T) {
	srv := bundled(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/sets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/sets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := bundled(t)
	resp, err := http.Post(srv.URL+"/api/sets", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestShutdownWithoutStart(t *testing.T) {
	s := New(content.NewLibrary(content.NewFSSource(content.Bundled()), nil), Options{})
	assert.NoError(t, s.Shutdown(context.Background()))
}
