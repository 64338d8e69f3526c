package tools

import (
	"context"
	"encoding/json"
)

// ToolCallFunc is the unit middleware operates on: the tool's Call method
// detached from its metadata.
type ToolCallFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Middleware takes the next handler in the chain and returns a handler
// that runs around it.
type Middleware func(next ToolCallFunc) ToolCallFunc

// ToolContext rides along in the context so middleware layers can see
// which tool is running and share data with each other.
type ToolContext struct {
	// ToolName identifies the tool being called.
	ToolName string

	// CallID is the invocation's identifier, when one exists.
	CallID string

	// Schema is the tool's parameter schema, populated by ApplyMiddleware.
	Schema json.RawMessage

	// Metadata is a scratch space shared across the middleware chain.
	Metadata map[string]any
}

type toolContextKey struct{}

// ContextWithToolContext attaches a ToolContext to ctx.
func ContextWithToolContext(ctx context.Context, tc *ToolContext) context.Context {
	return context.WithValue(ctx, toolContextKey{}, tc)
}

// ToolContextFromContext returns the attached ToolContext, or nil.
func ToolContextFromContext(ctx context.Context) *ToolContext {
	tc, _ := ctx.Value(toolContextKey{}).(*ToolContext)
	return tc
}

// Chain folds several middleware into one. The first argument ends up
// outermost, so it sees the call first and the result last.
func Chain(middlewares ...Middleware) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// ApplyMiddleware returns a tool whose Call runs through the given
// middleware chain. With no middleware the tool is returned as is.
func ApplyMiddleware(tool Tool, middlewares ...Middleware) Tool {
	if len(middlewares) == 0 {
		return tool
	}
	return &wrappedTool{
		tool:    tool,
		wrapped: Chain(middlewares...)(tool.Call),
	}
}

type wrappedTool struct {
	tool    Tool
	wrapped ToolCallFunc
}

func (w *wrappedTool) Name() string        { return w.tool.Name() }
func (w *wrappedTool) Description() string { return w.tool.Description() }
func (w *wrappedTool) Schema() ToolSchema  { return w.tool.Schema() }

func (w *wrappedTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	// Every chained call runs with a ToolContext present.
	tc := ToolContextFromContext(ctx)
	if tc == nil {
		tc = &ToolContext{
			ToolName: w.tool.Name(),
			Metadata: make(map[string]any),
		}
		ctx = ContextWithToolContext(ctx, tc)
	} else if tc.ToolName == "" {
		tc.ToolName = w.tool.Name()
	}
	if tc.Schema == nil {
		tc.Schema = w.tool.Schema().JSONSchema
	}

	return w.wrapped(ctx, args)
}
