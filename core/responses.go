package core

import "context"

// ResponsesProvider is an optional interface for providers that expose a
// Responses-style endpoint alongside chat completions. The request and
// response shapes are shared with Chat; only the wire surface differs.
type ResponsesProvider interface {
	// Responses sends a chat request through the Responses endpoint.
	Responses(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
