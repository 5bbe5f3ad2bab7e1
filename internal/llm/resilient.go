package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientProvider retries transient failures with exponential backoff
// and stops calling a provider that keeps failing until ResetTimeout has
// passed.
type ResilientProvider struct {
	inner   Provider
	retrier retry.Retry[*Response]
	breaker circuitbreaker.CircuitBreaker[*Response]
	logger  *slog.Logger
}

// WithResilience wraps p with retry and a circuit breaker.
func WithResilience(p Provider, cfg ResilienceConfig, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig().Resilience
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.TripAfter <= 0 {
		cfg.TripAfter = def.TripAfter
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}

	rp := &ResilientProvider{inner: p, logger: logger}
	rp.retrier = retry.New[*Response](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isTransient,
	})
	tripAfter := cfg.TripAfter
	rp.breaker = circuitbreaker.New[*Response](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= tripAfter
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("llm circuit breaker state change",
				"model", p.ModelID(),
				"from", from.String(),
				"to", to.String())
		},
	})
	return rp
}

func (r *ResilientProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return r.breaker.Execute(ctx, func(ctx context.Context) (*Response, error) {
		return r.retrier.Do(ctx, func(ctx context.Context) (*Response, error) {
			resp, err := r.inner.Generate(ctx, req)
			if err != nil {
				var rl *ErrRateLimit
				if errors.As(err, &rl) {
					r.logger.Debug("llm rate limited", "model", r.inner.ModelID(), "retry_after", rl.RetryAfter)
				}
			}
			return resp, err
		})
	})
}

func (r *ResilientProvider) ModelID() string {
	return r.inner.ModelID()
}

// isTransient reports whether another attempt could succeed. Truncated
// output and cancellation are final; a response that broke its schema is
// worth asking for again.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var maxTok *ErrMaxTokensExceeded
	return !errors.As(err, &maxTok)
}
