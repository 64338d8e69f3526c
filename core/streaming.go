package core

import (
	"context"
	"strings"
)

// ChatStream is the channel contract between a streaming provider and its
// consumer.
//
// The producer owns all three channels and must close every one of them
// when the stream ends, including after context cancellation. Err carries
// at most one error. Final carries exactly one response on success and none
// when setup fails mid-flight; its Output may be empty, in which case the
// consumer reconstructs the text from the deltas it saw. Usage may be
// zeroed when the provider cannot compute it for streams.
type ChatStream struct {
	// Ch delivers text deltas in emission order.
	Ch <-chan ChatChunk

	// Err delivers at most one error, then closes.
	Err <-chan error

	// Final delivers the complete response (usage, tool calls) once the
	// stream has ended cleanly.
	Final <-chan *ChatResponse
}

// DrainStream consumes a stream to completion and returns the final
// response, with the accumulated deltas filling in Output when the
// producer left it empty. It blocks until all three channels close or ctx
// is cancelled.
//
// The channels are drained together rather than in sequence: producers are
// free to close them in any order, and a buffered value must not be lost
// because its sibling channel closed first.
func DrainStream(ctx context.Context, s *ChatStream) (*ChatResponse, error) {
	if s == nil {
		return nil, ErrBadRequest
	}

	var text strings.Builder
	var streamErr error
	var final *ChatResponse

	ch, errCh, finalCh := s.Ch, s.Err, s.Final
	for ch != nil || errCh != nil || finalCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			text.WriteString(chunk.Delta)

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				streamErr = err
			}

		case resp, ok := <-finalCh:
			if !ok {
				finalCh = nil
				continue
			}
			final = resp
		}
	}

	if streamErr != nil {
		return nil, streamErr
	}
	if final == nil {
		return &ChatResponse{Output: text.String()}, nil
	}
	if final.Output == "" {
		final.Output = text.String()
	}
	return final, nil
}
