package openai

import (
	"context"
	"encoding/json"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
)

// chatCompletionsPath is the API endpoint for chat completions.
const chatCompletionsPath = "/chat/completions"

// doChat performs a non-streaming chat completion request.
func (p *OpenAI) doChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	body, err := p.exec.Do(ctx, resilient.Request{
		URL:    p.config.BaseURL + chatCompletionsPath,
		Body:   buildRequest(req, false),
		Header: p.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}

	var oaiResp openAIResponse
	if err := json.Unmarshal(body, &oaiResp); err != nil {
		return nil, newDecodeError(err)
	}

	return mapResponse(&oaiResp), nil
}

// mapResponse converts a wire response to a core.ChatResponse.
func mapResponse(resp *openAIResponse) *core.ChatResponse {
	result := &core.ChatResponse{
		ID:    resp.ID,
		Model: core.ModelID(resp.Model),
		Usage: core.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	// Extract content from first choice
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		result.Output = choice.Message.Content
		result.ToolCalls = mapToolCalls(choice.Message.ToolCalls)
	}

	return result
}

// mapToolCalls converts wire tool calls to core.ToolCalls. Arguments are
// carried verbatim, malformed ones included; the tool loop decides what to
// do with arguments that do not parse.
func mapToolCalls(calls []openAIToolCall) []core.ToolCall {
	if len(calls) == 0 {
		return nil
	}

	result := make([]core.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = core.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		}
	}
	return result
}
