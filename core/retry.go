package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy determines retry behavior for failed requests.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether to retry.
	// If ok is false, no more retries should be attempted.
	// attempt starts at 0 for the first retry after the initial failure.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts (default: 5)
	BaseDelay  time.Duration // Backoff base for the first retry (default: 500ms)
	JitterMax  time.Duration // Additive uniform jitter bound (default: 250ms)
}

// DefaultRetryPolicy returns a retry policy with the defaults the API
// contract specifies: exponential backoff doubling from 500ms, up to
// 250ms of additive jitter, max 5 retries, no delay cap.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{})
}

// NewRetryPolicy creates a retry policy with the given configuration.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.JitterMax <= 0 {
		cfg.JitterMax = 250 * time.Millisecond
	}
	return &exponentialBackoff{cfg: cfg}
}

type exponentialBackoff struct {
	cfg RetryConfig
}

func (e *exponentialBackoff) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= e.cfg.MaxRetries {
		return 0, false
	}

	if !isRetryable(err) {
		return 0, false
	}

	// A server-supplied Retry-After hint overrides the exponential base.
	var delay float64
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		delay = float64(apiErr.RetryAfter)
	} else {
		// baseDelay * 2^attempt, uncapped (MaxRetries bounds the growth)
		delay = float64(e.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	}

	// Additive jitter in [0, JitterMax)
	delay += rand.Float64() * float64(e.cfg.JitterMax)

	return time.Duration(delay), true
}

// isRetryable determines if an error should trigger a retry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Timeouts and cancellation are never retried.
	if errors.Is(err, ErrTimeout) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Transport failures with no HTTP response are retried.
	if errors.Is(err, ErrNetwork) {
		return true
	}

	// HTTP responses retry on the specific status allowlist.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status > 0 {
		return RetryableStatus(apiErr.Status)
	}

	return false
}

// RetryableStatus reports whether an HTTP status code should trigger a retry.
// Exactly rate limiting (429), bad gateway (502), service unavailable (503),
// and origin timeout (524) are retryable.
func RetryableStatus(status int) bool {
	switch status {
	case 429, 502, 503, 524:
		return true
	default:
		return false
	}
}
