package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// maxBody caps the size of a fetched document.
const maxBody = 4 << 20

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Client       *http.Client
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// TripAfter is the number of consecutive failures that opens the
	// circuit.
	TripAfter    int
	ResetTimeout time.Duration

	Logger *slog.Logger
}

// DefaultHTTPOptions returns the options used for remote content.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Client:       &http.Client{Timeout: 15 * time.Second},
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		TripAfter:    5,
		ResetTimeout: 30 * time.Second,
	}
}

// HTTPSource fetches content relative to a base URL, retrying transient
// failures and backing off behind a circuit breaker.
type HTTPSource struct {
	base    *url.URL
	client  *http.Client
	retrier retry.Retry[[]byte]
	breaker circuitbreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts HTTPOptions) (*HTTPSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("content base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("content base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	def := DefaultHTTPOptions()
	if opts.Client == nil {
		opts.Client = def.Client
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = def.InitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.TripAfter <= 0 {
		opts.TripAfter = def.TripAfter
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = def.ResetTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &HTTPSource{
		base:   base,
		client: opts.Client,
		logger: opts.Logger,
	}
	s.retrier = retry.New[[]byte](retry.Config{
		MaxAttempts:   opts.MaxAttempts,
		InitialDelay:  opts.InitialDelay,
		MaxDelay:      opts.MaxDelay,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})
	tripAfter := opts.TripAfter
	s.breaker = circuitbreaker.New[[]byte](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.ResetTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= tripAfter
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			s.logger.Warn("content circuit breaker state change",
				"host", base.Host,
				"from", from.String(),
				"to", to.String())
		},
	})
	return s, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	return s.breaker.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return s.retrier.Do(ctx, func(ctx context.Context) ([]byte, error) {
			return s.get(ctx, path)
		})
	})
}

// List reads <dir>/index.json, a JSON array of file names.
func (s *HTTPSource) List(ctx context.Context, dir string) ([]string, error) {
	data, err := s.Fetch(ctx, dir+"/"+indexFile)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrListUnsupported
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse %s listing: %w", dir, err)
	}
	return names, nil
}

func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	u := s.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	s.logger.Debug("content fetched",
		"url", u.String(),
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: u.String(), Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("%s: document exceeds %d bytes", path, maxBody)
	}
	return data, nil
}

func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ne net.Error
	return errors.As(err, &ne)
}
