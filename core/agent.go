package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ToolExecutor is an interface for executing tools by name.
// This interface is implemented by tools.Registry.
type ToolExecutor interface {
	// Execute finds a tool by name and calls it with the given arguments.
	Execute(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// DefaultMaxDepth is the recursion bound of the tool-calling loop: the
// original request is depth 0 and each round of tool results feeds a
// follow-up at depth+1. At the bound, tools are withheld so the model is
// forced to produce a final plain-text answer. This is a deliberate
// infinite-loop guard.
const DefaultMaxDepth = 2

// LoopConfig configures the behavior of a tool-calling loop.
type LoopConfig struct {
	// MaxDepth is the maximum follow-up depth. Default: 2.
	MaxDepth int

	// Tracker records tool execution lifecycles. A private tracker is
	// created when nil.
	Tracker *CallTracker

	// Hooks for observing tool execution.
	Hooks LoopHooks

	// Logger receives diagnostics (hook panics, skipped callbacks).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// LoopHooks provides caller-facing inspection callbacks. Hooks are invoked
// synchronously; a panicking hook is recovered and logged, never propagated.
type LoopHooks struct {
	// OnToolCall is called when a tool execution begins.
	OnToolCall func(e ToolCallEvent)

	// OnToolResult is called after a tool execution succeeds.
	OnToolResult func(e ToolResultEvent)

	// OnToolError is called after a tool execution fails.
	OnToolError func(e ToolErrorEvent)

	// OnTextDelta is called for each text chunk during streaming.
	// Only used with RunStream.
	OnTextDelta func(delta string)
}

// ToolCallEvent is emitted when a tool execution begins.
type ToolCallEvent struct {
	CallID     string
	Name       string
	Parameters any
	Timestamp  time.Time
}

// ToolResultEvent is emitted after a successful tool execution.
type ToolResultEvent struct {
	CallID    string
	Name      string
	Result    any
	Duration  time.Duration
	Timestamp time.Time
}

// ToolErrorEvent is emitted after a failed tool execution.
type ToolErrorEvent struct {
	CallID    string
	Name      string
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// StopReason indicates why the tool loop terminated.
type StopReason string

const (
	// StopReasonComplete means the model finished with a plain answer.
	StopReasonComplete StopReason = "complete"
	// StopReasonDepthLimit means the depth bound forced a final answer.
	StopReasonDepthLimit StopReason = "depth_limit"
)

// RunMetadata describes the whole recursive chain of a run.
// It is assembled once, at the top level.
type RunMetadata struct {
	// ToolCalls are the tracked executions across all depths, in order.
	ToolCalls []TrackedCall

	// Requests is the number of physical model requests issued.
	Requests int

	// Duration is total wall-clock time from start to finish.
	Duration time.Duration

	// Usage is the token usage of the last physical request.
	Usage TokenUsage

	// StopReason indicates why the loop stopped.
	StopReason StopReason
}

// RunResult is the outcome of a tool loop run.
type RunResult struct {
	// Output is the model's final text answer.
	Output string

	// Response is the last model response.
	Response *ChatResponse

	// Metadata describes the whole chain.
	Metadata RunMetadata
}

// ToolLoop drives one or more chat requests, executing model-issued tool
// calls through a ToolExecutor and feeding results back until the model
// answers in plain text or the depth bound is reached.
type ToolLoop struct {
	builder  *ChatBuilder
	executor ToolExecutor
	config   LoopConfig
}

// ToolLoop creates a tool loop from a ChatBuilder.
// The builder should already have messages, tools, and other options set.
// The executor parameter is typically a *tools.Registry.
func (b *ChatBuilder) ToolLoop(executor ToolExecutor) *ToolLoop {
	return &ToolLoop{
		builder:  b,
		executor: executor,
		config: LoopConfig{
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// WithConfig sets the loop configuration.
func (l *ToolLoop) WithConfig(cfg LoopConfig) *ToolLoop {
	l.config = cfg
	if l.config.MaxDepth <= 0 {
		l.config.MaxDepth = DefaultMaxDepth
	}
	return l
}

// WithMaxDepth sets the maximum follow-up depth.
func (l *ToolLoop) WithMaxDepth(n int) *ToolLoop {
	if n > 0 {
		l.config.MaxDepth = n
	}
	return l
}

// WithTracker sets the call tracker shared with the caller.
func (l *ToolLoop) WithTracker(t *CallTracker) *ToolLoop {
	l.config.Tracker = t
	return l
}

// WithHooks sets the inspection callbacks.
func (l *ToolLoop) WithHooks(hooks LoopHooks) *ToolLoop {
	l.config.Hooks = hooks
	return l
}

// WithLogger sets the diagnostics logger.
func (l *ToolLoop) WithLogger(logger *slog.Logger) *ToolLoop {
	l.config.Logger = logger
	return l
}

// Run executes the loop synchronously and returns the final answer.
// Request-level failures (timeout, network, API errors) propagate to the
// caller; tool-level failures are absorbed as synthetic tool results so the
// model can recover conversationally.
func (l *ToolLoop) Run(ctx context.Context) (*RunResult, error) {
	return l.execute(ctx, false)
}

// RunStream executes the loop with streaming. Text deltas are forwarded to
// hooks.OnTextDelta as produced; tool-call fragments are never surfaced.
// After a round of tool execution, the follow-up streaming request forces
// tool_choice "none" to guarantee a user-facing textual finish.
func (l *ToolLoop) RunStream(ctx context.Context) (*RunResult, error) {
	return l.execute(ctx, true)
}

func (l *ToolLoop) execute(ctx context.Context, streaming bool) (*RunResult, error) {
	start := time.Now()

	tracker := l.config.Tracker
	if tracker == nil {
		tracker = NewCallTracker()
	}
	logger := l.config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	builder := l.builder.Clone()
	hasTools := len(builder.req.Tools) > 0

	var (
		resp       *ChatResponse
		runCalls   []TrackedCall
		requests   int
		stopReason StopReason
	)

	for depth := 0; ; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		atBound := depth >= l.config.MaxDepth
		if atBound && hasTools {
			if streaming {
				// Streaming keeps the advertised tools but forbids their use.
				builder.ToolChoice(ToolChoiceNone)
			} else {
				builder.WithoutTools()
			}
		}

		var err error
		if streaming {
			resp, err = l.streamOnce(ctx, builder, logger)
		} else {
			resp, err = builder.GetResponse(ctx)
		}
		requests++
		if err != nil {
			return nil, err
		}

		if !resp.HasToolCalls() {
			stopReason = StopReasonComplete
			break
		}
		if atBound {
			// The model was not offered tools; any residual tool calls are
			// ignored and the text stands as the final answer.
			stopReason = StopReasonDepthLimit
			break
		}

		results, executed := l.executeToolCalls(ctx, resp.ToolCalls, tracker, logger)
		runCalls = append(runCalls, executed...)

		builder = builder.ToolResults(resp, results)
		if streaming {
			// One round of tools per streamed run: the follow-up must finish
			// with text the caller can see.
			builder.ToolChoice(ToolChoiceNone)
		}
	}

	return &RunResult{
		Output:   resp.Output,
		Response: resp,
		Metadata: RunMetadata{
			ToolCalls:  runCalls,
			Requests:   requests,
			Duration:   time.Since(start),
			Usage:      resp.Usage,
			StopReason: stopReason,
		},
	}, nil
}

// executeToolCalls runs the requested tools strictly sequentially, in the
// order the model issued them, so result messages append deterministically.
// Failures never abort the batch: an unknown tool, unparseable arguments,
// or a handler error each become a synthetic error result.
func (l *ToolLoop) executeToolCalls(
	ctx context.Context,
	calls []ToolCall,
	tracker *CallTracker,
	logger *slog.Logger,
) ([]ToolResult, []TrackedCall) {
	results := NewToolResults()
	executed := make([]TrackedCall, 0, len(calls))

	for _, call := range calls {
		var params any
		if len(call.Arguments) > 0 {
			if err := json.Unmarshal(call.Arguments, &params); err != nil {
				params = string(call.Arguments)
			}
		}

		tracked := tracker.StartCall(call.Name, params)
		l.safeHook(logger, "OnToolCall", func() {
			if l.config.Hooks.OnToolCall != nil {
				l.config.Hooks.OnToolCall(ToolCallEvent{
					CallID:     tracked.ID,
					Name:       call.Name,
					Parameters: tracked.Parameters,
					Timestamp:  tracked.Timestamp,
				})
			}
		})

		var result any
		var err error
		if len(call.Arguments) > 0 && !json.Valid(call.Arguments) {
			// The model emitted broken argument bytes. The tool never runs;
			// the failure goes back as an error result like any other.
			err = fmt.Errorf("tool %s: arguments are not valid JSON", call.Name)
		} else {
			result, err = l.executor.Execute(ctx, call.Name, call.Arguments)
		}
		if err != nil {
			resolved, _ := tracker.ErrorCall(tracked.ID, err)
			executed = append(executed, resolved)
			results.Error(call.ID, err)
			l.safeHook(logger, "OnToolError", func() {
				if l.config.Hooks.OnToolError != nil {
					l.config.Hooks.OnToolError(ToolErrorEvent{
						CallID:    resolved.ID,
						Name:      resolved.Name,
						Error:     resolved.Error,
						Duration:  resolved.Duration,
						Timestamp: resolved.Timestamp,
					})
				}
			})
			continue
		}

		resolved, _ := tracker.CompleteCall(tracked.ID, result)
		executed = append(executed, resolved)
		results.Success(call.ID, result)
		l.safeHook(logger, "OnToolResult", func() {
			if l.config.Hooks.OnToolResult != nil {
				l.config.Hooks.OnToolResult(ToolResultEvent{
					CallID:    resolved.ID,
					Name:      resolved.Name,
					Result:    resolved.Result,
					Duration:  resolved.Duration,
					Timestamp: resolved.Timestamp,
				})
			}
		})
	}

	return results.Build(), executed
}

// streamOnce issues one streaming request, forwarding text deltas to the
// caller and draining the stream into a complete response.
func (l *ToolLoop) streamOnce(ctx context.Context, builder *ChatBuilder, logger *slog.Logger) (*ChatResponse, error) {
	stream, err := builder.Stream(ctx)
	if err != nil {
		return nil, err
	}

	var accumulated strings.Builder

	for chunk := range stream.Ch {
		if chunk.Delta == "" {
			continue
		}
		accumulated.WriteString(chunk.Delta)
		delta := chunk.Delta
		l.safeHook(logger, "OnTextDelta", func() {
			if l.config.Hooks.OnTextDelta != nil {
				l.config.Hooks.OnTextDelta(delta)
			}
		})
	}

	// The deltas are done; wait for the error verdict rather than polling,
	// since producers may still be forwarding it.
	select {
	case err, ok := <-stream.Err:
		if ok && err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Get final response
	select {
	case resp := <-stream.Final:
		if resp != nil {
			if resp.Output == "" {
				resp.Output = accumulated.String()
			}
			return resp, nil
		}
		return &ChatResponse{Output: accumulated.String()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// safeHook invokes a caller hook, recovering and logging any panic so
// inspection callbacks can never break the loop.
func (l *ToolLoop) safeHook(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tool loop hook panicked", "hook", name, "panic", r)
		}
	}()
	fn()
}
