package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
	"github.com/scribe-labs/scribe/providers/internal/toolcalls"
)

// doStreamChat performs a streaming chat completion request.
// The response header exchange goes through the resilient executor, so
// retryable statuses and network failures are retried before any frame is
// consumed; mid-stream failures are surfaced as core.ErrStream.
func (p *OpenAI) doStreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	resp, err := p.exec.DoStream(ctx, resilient.Request{
		URL:    p.config.BaseURL + chatCompletionsPath,
		Body:   buildRequest(req, true),
		Header: p.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}

	chunkCh := make(chan core.ChatChunk, 100)
	errCh := make(chan error, 1)
	finalCh := make(chan *core.ChatResponse, 1)

	go p.decodeSSE(ctx, resp.Body, chunkCh, errCh, finalCh)

	return &core.ChatStream{
		Ch:    chunkCh,
		Err:   errCh,
		Final: finalCh,
	}, nil
}

// decodeSSE reads the SSE stream and emits chunks.
//
// Each frame is a "data: <payload>" line group terminated by a blank line;
// the reader buffers partial lines across network reads, so frame
// boundaries need not align with chunk boundaries. The literal [DONE]
// payload terminates decoding without emitting an event. A frame with
// malformed JSON is logged and skipped; only a failure of the byte source
// itself aborts the stream.
func (p *OpenAI) decodeSSE(
	ctx context.Context,
	body io.ReadCloser,
	chunkCh chan<- core.ChatChunk,
	errCh chan<- error,
	finalCh chan<- *core.ChatResponse,
) {
	defer body.Close()
	defer close(chunkCh)
	defer close(errCh)
	defer close(finalCh)

	reader := bufio.NewReader(body)
	assembler := toolcalls.NewAssembler(toolcalls.Config{EmptyArgumentsJSON: "{}"})

	var responseID string
	var responseModel string
	var usage *openAIUsage

	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				errCh <- newStreamError(err)
				return
			}
			if line == "" {
				break
			}
			// A final frame may arrive without its trailing newline; decode
			// it before treating EOF as end of stream. The next read returns
			// an empty line and ends the loop.
		}

		line = strings.TrimSpace(line)

		// Skip frame separators and comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		if payload == "[DONE]" {
			break
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			p.logger.Warn("skipping malformed stream frame", "error", err)
			continue
		}

		// Capture metadata
		if chunk.ID != "" {
			responseID = chunk.ID
		}
		if chunk.Model != "" {
			responseModel = chunk.Model
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}

		for _, choice := range chunk.Choices {
			// Emit content deltas; role defaults to assistant when the
			// frame omits it.
			if choice.Delta.Content != "" {
				role := core.Role(choice.Delta.Role)
				if role == "" {
					role = core.RoleAssistant
				}
				select {
				case chunkCh <- core.ChatChunk{Role: role, Delta: choice.Delta.Content}:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}

			// Tool-call fragments accumulate silently until finalized.
			for _, tc := range choice.Delta.ToolCalls {
				assembler.AddFragment(toolcalls.Fragment{
					Index:     tc.Index,
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				})
			}
		}
	}

	finalResp := &core.ChatResponse{
		ID:        responseID,
		Model:     core.ModelID(responseModel),
		ToolCalls: assembler.Finalize(),
	}

	if usage != nil {
		finalResp.Usage = core.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}

	finalCh <- finalResp
}
