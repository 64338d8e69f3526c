package core

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a failed request to the API with full context.
// Err carries a sentinel for classification via errors.Is.
type APIError struct {
	Status     int
	StatusText string
	Code       string
	Message    string
	RequestID  string

	// RetryAfter is the server-supplied retry hint, zero when absent.
	RetryAfter time.Duration

	// Attempts is the number of physical attempts made before this error
	// was surfaced. Zero when the request was never retried.
	Attempts int

	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Status > 0 && e.RequestID != "":
		return fmt.Sprintf("api error %d %s: %s (request_id=%s)",
			e.Status, e.StatusText, e.Message, e.RequestID)
	case e.Status > 0:
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.StatusText, e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying sentinel for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	// ErrTimeout indicates a single attempt exceeded its deadline.
	// Timeouts are never retried.
	ErrTimeout = errors.New("request timeout")

	// ErrNetwork indicates a transport-level failure with no HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrStream indicates the underlying byte source of a stream failed.
	// Individual malformed frames are skipped, not surfaced as ErrStream.
	ErrStream = errors.New("stream decode error")

	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("decode error")
	ErrNotSupported = errors.New("operation not supported")
)

// Validation errors with actionable guidance.
var (
	ErrModelRequired = errors.New("model required: pass a model ID to Client.Chat(), e.g., client.Chat(\"gpt-4o\")")
	ErrNoMessages    = errors.New("no messages: add at least one message using .System(), .User(), or .Assistant()")
)
