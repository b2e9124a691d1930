package github

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Executor issues a single HTTP call, normalizing transport failures to
// the status sentinel 0. Satisfied by *Client; tests substitute stubs.
type Executor interface {
	Execute(ctx context.Context, method, url string, body any) (*Outcome, error)
}

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per logical operation,
	// counting the first one.
	MaxAttempts int
	// Delay is the fixed pause between attempts. No exponential growth,
	// no jitter: the bound semantics are part of the tool's contract.
	Delay time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
	}
}

// Retrier wraps an Executor with bounded fixed-delay retry for
// retryable failures.
type Retrier struct {
	exec   Executor
	config *RetryConfig
}

// NewRetrier creates a Retrier around the given executor
func NewRetrier(exec Executor, config *RetryConfig) *Retrier {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &Retrier{
		exec:   exec,
		config: config,
	}
}

// Do executes the request, retrying on retryable statuses up to the
// configured attempt bound. On success the 2xx outcome is returned with a
// nil error. On failure the last outcome is returned alongside a
// *StatusError carrying its status and body.
func (r *Retrier) Do(ctx context.Context, method, url string, body any) (*Outcome, error) {
	for attempt := 1; ; attempt++ {
		outcome, err := r.exec.Execute(ctx, method, url, body)
		if err != nil {
			return nil, err
		}

		if outcome.Success() {
			return outcome, nil
		}

		if !ShouldRetry(outcome.StatusCode) || attempt == r.config.MaxAttempts {
			return outcome, &StatusError{StatusCode: outcome.StatusCode, Body: string(outcome.Body)}
		}

		slog.Warn("Retrying request",
			"method", method,
			"url", url,
			"status", outcome.StatusCode,
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"delay", r.config.Delay)

		select {
		case <-time.After(r.config.Delay):
		case <-ctx.Done():
			return outcome, ctx.Err()
		}
	}
}

// ShouldRetry reports whether a status belongs to the retryable class:
// server errors, rate limiting, and the transport-failure sentinel.
// Every other status, 423 included, is terminal.
func ShouldRetry(status int) bool {
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}
