package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() HTTPOptions {
	return HTTPOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		TripAfter:    10,
	}
}

func TestHTTPSource_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/content/model/tiny.json", r.URL.Path)
		_, _ = w.Write([]byte(smallSet))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/content", fastOptions())
	require.NoError(t, err)

	set, _, err := NewLibrary(src, nil).LoadSet(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", set.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, fastOptions())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), "model/x.json")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPSource_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, fastOptions())
	require.NoError(t, err)

	_, _, err = NewLibrary(src, nil).LoadSet(context.Background(), "tiny")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "tiny", le.ID)
}

func TestHTTPSource_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/model/index.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["tiny.json"]`))
	})
	mux.HandleFunc("/model/tiny.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(smallSet))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, fastOptions())
	require.NoError(t, err)

	sets, err := NewLibrary(src, nil).ListSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "tiny", sets[0].ID)

	_, err = src.List(context.Background(), "grammar")
	assert.ErrorIs(t, err, ErrListUnsupported)
}

func TestNewHTTPSource_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com", HTTPOptions{})
	assert.Error(t, err)
	_, err = NewHTTPSource("://", HTTPOptions{})
	assert.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&StatusError{Code: 503}))
	assert.True(t, isRetryable(&StatusError{Code: 429}))
	assert.False(t, isRetryable(&StatusError{Code: 400}))
	assert.False(t, isRetryable(context.Canceled))
	assert.False(t, isRetryable(ErrNotFound))
	assert.False(t, isRetryable(nil))
}
