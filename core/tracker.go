package core

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CallStatus is the lifecycle state of a tracked tool call.
type CallStatus string

const (
	CallStarted   CallStatus = "started"
	CallCompleted CallStatus = "completed"
	CallErrored   CallStatus = "error"
)

// maxParameterBytes bounds the serialized size of recorded parameters.
// Larger payloads are replaced with a truncation marker.
const maxParameterBytes = 10 * 1024

// parameterPreviewBytes is how much of an oversized payload is kept.
const parameterPreviewBytes = 256

// TrackedCall records the lifecycle of one tool execution.
// A call transitions started -> completed or started -> error exactly once.
type TrackedCall struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Parameters any           `json:"parameters"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     CallStatus    `json:"status"`
	Result     any           `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`

	startTime time.Time
}

// CallTracker records the lifecycle of tool executions: active calls are
// held until resolved, then moved to an append-only history.
// CallTracker is safe for concurrent use.
//
// History is unbounded by default; set MaxHistory or call ClearHistory
// for long-lived sessions.
type CallTracker struct {
	mu         sync.Mutex
	active     map[string]*TrackedCall
	history    []TrackedCall
	counter    uint64
	maxHistory int
}

// TrackerOption configures a CallTracker.
type TrackerOption func(*CallTracker)

// WithMaxHistory bounds the history to the most recent n entries.
// Zero (the default) keeps history unbounded.
func WithMaxHistory(n int) TrackerOption {
	return func(t *CallTracker) {
		t.maxHistory = n
	}
}

// NewCallTracker creates an empty tracker.
func NewCallTracker(opts ...TrackerOption) *CallTracker {
	t := &CallTracker{
		active: make(map[string]*TrackedCall),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartCall records the start of a tool execution and returns a copy of the
// new entry. Parameters exceeding the size bound are replaced with a
// truncation marker before recording.
func (t *CallTracker) StartCall(name string, parameters any) TrackedCall {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.counter++
	call := &TrackedCall{
		ID:         newCallID(now, t.counter),
		Name:       name,
		Parameters: sanitizeParameters(parameters),
		Timestamp:  now,
		Status:     CallStarted,
		startTime:  now,
	}
	t.active[call.ID] = call
	return *call
}

// CompleteCall resolves an active call as successful, moving it to history
// with its result and duration. Unknown or already-resolved IDs are a no-op.
func (t *CallTracker) CompleteCall(callID string, result any) (TrackedCall, bool) {
	return t.resolve(callID, func(call *TrackedCall) {
		call.Status = CallCompleted
		call.Result = result
	})
}

// ErrorCall resolves an active call as failed, recording the error message.
// Unknown or already-resolved IDs are a no-op.
func (t *CallTracker) ErrorCall(callID string, err error) (TrackedCall, bool) {
	return t.resolve(callID, func(call *TrackedCall) {
		call.Status = CallErrored
		if err != nil {
			call.Error = err.Error()
		}
	})
}

func (t *CallTracker) resolve(callID string, apply func(*TrackedCall)) (TrackedCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, ok := t.active[callID]
	if !ok {
		return TrackedCall{}, false
	}
	delete(t.active, callID)

	call.Duration = time.Since(call.startTime)
	if call.Duration < 0 {
		call.Duration = 0
	}
	apply(call)

	t.history = append(t.history, *call)
	if t.maxHistory > 0 && len(t.history) > t.maxHistory {
		t.history = t.history[len(t.history)-t.maxHistory:]
	}
	return *call, true
}

// Active returns copies of the calls that have started but not resolved.
func (t *CallTracker) Active() []TrackedCall {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]TrackedCall, 0, len(t.active))
	for _, call := range t.active {
		result = append(result, *call)
	}
	return result
}

// History returns a copy of the resolved calls in completion order.
func (t *CallTracker) History() []TrackedCall {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]TrackedCall, len(t.history))
	copy(result, t.history)
	return result
}

// ClearHistory discards all resolved entries. Active calls are unaffected.
func (t *CallTracker) ClearHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = nil
}

// newCallID builds a unique call identifier from the start timestamp, a
// monotonic counter, and a random suffix. The counter disambiguates calls
// started within the same millisecond.
func newCallID(now time.Time, counter uint64) string {
	return fmt.Sprintf("call_%d_%d_%s", now.UnixMilli(), counter, uuid.NewString()[:8])
}

// sanitizeParameters bounds the recorded size of tool parameters. Payloads
// whose JSON serialization exceeds maxParameterBytes are replaced with a
// marker carrying the original size and a short preview.
func sanitizeParameters(parameters any) any {
	data, err := json.Marshal(parameters)
	if err != nil {
		// Unserializable parameters are recorded as their Go string form.
		return fmt.Sprintf("%v", parameters)
	}
	if len(data) <= maxParameterBytes {
		return parameters
	}

	preview := data
	if len(preview) > parameterPreviewBytes {
		preview = preview[:parameterPreviewBytes]
	}
	return map[string]any{
		"_truncated":    true,
		"_originalSize": len(data),
		"_preview":      string(preview),
	}
}
