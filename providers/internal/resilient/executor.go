// Package resilient provides the retrying, timeout-bounded HTTP executor
// shared by provider clients. One logical request becomes up to
// MaxRetries+1 physical attempts; each attempt owns a fresh deadline and
// exactly one timeout handle, cleared on completion or expiry.
package resilient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/scribe-labs/scribe/core"
)

// errBodyFallback is recorded when an error body is neither the expected
// JSON envelope nor readable text.
const errBodyFallback = "Unable to parse error response"

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 5
)

// Config configures an Executor.
type Config struct {
	// HTTPClient performs the physical requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each individual attempt. An attempt that exceeds it is
	// cancelled and surfaced as core.ErrTimeout, never retried.
	// Default: 30s.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial one.
	// Default: 5.
	MaxRetries int

	// Policy computes retry delays. Defaults to the exponential-backoff
	// policy configured with MaxRetries.
	Policy core.RetryPolicy

	// Logger receives one diagnostic line per retry, including the
	// computed delay. Defaults to slog.Default().
	Logger *slog.Logger
}

// Request describes one logical HTTP request. The body is marshaled once,
// so every physical attempt sends byte-identical payload and headers.
type Request struct {
	// Method defaults to POST. GET and DELETE send no body.
	Method string

	// URL is the full endpoint URL without query parameters.
	URL string

	// Body is JSON-marshaled for methods that carry one.
	Body any

	// RawBody, when non-nil, is sent verbatim and Body is ignored. The
	// caller supplies the matching Content-Type header.
	RawBody []byte

	// Query is appended to the URL when non-empty.
	Query url.Values

	// Header is copied onto every attempt.
	Header http.Header
}

// Executor issues logical requests with retry and per-attempt timeout
// discipline. Executor is safe for concurrent use.
type Executor struct {
	client  *http.Client
	timeout time.Duration
	policy  core.RetryPolicy
	logger  *slog.Logger
}

// New creates an Executor, filling zero Config fields with defaults.
func New(cfg Config) *Executor {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Policy == nil {
		cfg.Policy = core.NewRetryPolicy(core.RetryConfig{MaxRetries: cfg.MaxRetries})
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Executor{
		client:  cfg.HTTPClient,
		timeout: cfg.Timeout,
		policy:  cfg.Policy,
		logger:  cfg.Logger,
	}
}

// Do executes the request and returns the response body on a 2xx status.
// The per-attempt timeout stays armed until the body is fully read, so a
// server that sends headers and then stalls still surfaces core.ErrTimeout.
// Exactly one of {body, timeout error, network error, API error} results.
func (e *Executor) Do(ctx context.Context, req Request) ([]byte, error) {
	resp, err := e.execute(ctx, req, false)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		if bodyTimedOut(resp.Body) {
			return nil, &core.APIError{
				Message: "request timed out after " + e.timeout.String(),
				Err:     core.ErrTimeout,
			}
		}
		return nil, &core.APIError{Message: err.Error(), Err: core.ErrNetwork}
	}
	return body, nil
}

// DoStream executes the request and hands back the open response on a 2xx
// status. Status checking and retries apply to the header exchange exactly
// as in Do; the caller owns the body and must close it. The per-attempt
// timeout covers the header exchange only; reading the body is governed
// by ctx.
func (e *Executor) DoStream(ctx context.Context, req Request) (*http.Response, error) {
	return e.execute(ctx, req, true)
}

func (e *Executor) execute(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	// Marshal once so retries carry an identical payload.
	var payload []byte
	switch {
	case req.RawBody != nil:
		payload = req.RawBody
	case req.Body != nil && method != http.MethodGet && method != http.MethodDelete:
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, &core.APIError{Message: err.Error(), Err: core.ErrDecode}
		}
	}

	target := req.URL
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	for attempt := 0; ; attempt++ {
		resp, err := e.attempt(ctx, method, target, payload, req.Header, stream)
		if err == nil {
			return resp, nil
		}

		delay, retry := e.policy.NextDelay(attempt, err)
		if !retry {
			return nil, withAttempts(err, attempt+1)
		}

		e.logger.Warn("retrying request",
			"url", target,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// attempt performs one physical request under a fresh timeout handle.
// The handle is cleared exactly once: by an error path here, on body close,
// or by firing. For buffered requests the timer keeps running until the
// body is read; for streams it is disarmed once headers arrive.
func (e *Executor) attempt(ctx context.Context, method, target string, payload []byte, header http.Header, stream bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	attemptCtx, handle := newTimeoutHandle(ctx, e.timeout)

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		handle.Clear()
		return nil, &core.APIError{Message: err.Error(), Err: core.ErrNetwork}
	}
	for key, values := range header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		handle.Clear()
		if handle.Expired() {
			return nil, &core.APIError{
				Message: "request timed out after " + e.timeout.String(),
				Err:     core.ErrTimeout,
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &core.APIError{Message: err.Error(), Err: core.ErrNetwork}
	}

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		handle.Clear()
		if handle.Expired() {
			return nil, &core.APIError{
				Message: "request timed out after " + e.timeout.String(),
				Err:     core.ErrTimeout,
			}
		}
		return nil, statusError(resp, errBody)
	}

	// Success: the handle transfers to the body and is released on close.
	// Streaming bodies outlive the attempt deadline, so their timer stops
	// here; buffered bodies stay on the clock until fully read.
	if stream {
		handle.Disarm()
	}
	resp.Body = &handleClosingBody{ReadCloser: resp.Body, handle: handle}
	return resp, nil
}

// bodyTimedOut reports whether a body read failed because the attempt
// deadline fired mid-read.
func bodyTimedOut(body io.ReadCloser) bool {
	b, ok := body.(*handleClosingBody)
	return ok && b.handle.Expired()
}

// statusError builds the typed error for a non-2xx response, embedding the
// status, status text, best-effort parsed message, and the Retry-After hint.
func statusError(resp *http.Response, body []byte) error {
	return &core.APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Message:    parseErrorMessage(body),
		RequestID:  resp.Header.Get("x-request-id"),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        sentinelForStatus(resp.StatusCode),
	}
}

// parseErrorMessage extracts a human-readable message from an error body:
// the JSON {"error":{"message":...}} envelope first, then plain text, then
// a fixed placeholder when both fail.
func parseErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return errBodyFallback
}

// parseRetryAfter reads a Retry-After header value in seconds.
// HTTP-date forms and malformed values are ignored.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// sentinelForStatus maps an HTTP status code to a core sentinel error.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		return core.ErrServer
	}
}

// withAttempts stamps the attempt count onto an API error before it is
// surfaced to the caller.
func withAttempts(err error, attempts int) error {
	if apiErr, ok := err.(*core.APIError); ok {
		apiErr.Attempts = attempts
		return apiErr
	}
	return err
}

// timeoutHandle ties one attempt to a wall-clock deadline. It is owned
// exclusively by the in-flight attempt: Clear stops the timer and cancels
// the context, Disarm stops the timer while keeping the context alive for
// a streaming body, and Expired reports whether the deadline fired.
// Clear and Disarm are idempotent.
type timeoutHandle struct {
	cancel  context.CancelFunc
	timer   *time.Timer
	expired atomic.Bool
}

func newTimeoutHandle(ctx context.Context, d time.Duration) (context.Context, *timeoutHandle) {
	attemptCtx, cancel := context.WithCancel(ctx)
	h := &timeoutHandle{cancel: cancel}
	h.timer = time.AfterFunc(d, func() {
		h.expired.Store(true)
		cancel()
	})
	return attemptCtx, h
}

// Clear releases the handle: the timer is stopped and the attempt context
// cancelled.
func (h *timeoutHandle) Clear() {
	h.timer.Stop()
	h.cancel()
}

// Disarm stops the timer without cancelling the context, for attempts
// whose body outlives the header exchange.
func (h *timeoutHandle) Disarm() {
	h.timer.Stop()
}

// Expired reports whether the deadline fired before the attempt finished.
func (h *timeoutHandle) Expired() bool {
	return h.expired.Load()
}

// handleClosingBody releases the attempt's timeout handle when the caller
// closes the response body.
type handleClosingBody struct {
	io.ReadCloser
	handle *timeoutHandle
}

func (b *handleClosingBody) Close() error {
	err := b.ReadCloser.Close()
	b.handle.Clear()
	return err
}
