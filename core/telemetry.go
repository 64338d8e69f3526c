package core

import "time"

// TelemetryHook receives request lifecycle notifications for logging,
// metrics, or tracing.
//
// Event types carry operational metadata only: provider, model, timing,
// and token counts. They never include API keys, message content, model
// output, or request headers, so events are safe to ship to external
// monitoring systems as-is. Keep that property when extending them.
type TelemetryHook interface {
	// OnRequestStart is called when a request to a provider begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to a provider completes.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent describes a request that is about to be issued.
type RequestStartEvent struct {
	Provider string    // provider identifier, e.g. "openai"
	Model    ModelID   // model being called
	Start    time.Time // when the request started
}

// RequestEndEvent describes a finished request, successful or not.
type RequestEndEvent struct {
	Provider string     // provider identifier
	Model    ModelID    // model that was called
	Start    time.Time  // when the request started
	End      time.Time  // when the request completed
	Usage    TokenUsage // token consumption, zeroed when unavailable
	Err      error      // nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook discards all events. It is the default hook for
// clients constructed without telemetry.
type NoopTelemetryHook struct{}

func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent)     {}

var _ TelemetryHook = NoopTelemetryHook{}
