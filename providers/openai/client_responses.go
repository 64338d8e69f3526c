package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
)

// responsesPath is the API endpoint for the Responses API.
const responsesPath = "/responses"

// doResponsesChat performs a non-streaming request against the Responses
// API. System messages map to the instructions field; the remaining
// conversation becomes the input array.
func (p *OpenAI) doResponsesChat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	body, err := p.exec.Do(ctx, resilient.Request{
		URL:    p.config.BaseURL + responsesPath,
		Body:   buildResponsesRequest(req),
		Header: p.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}

	var respResp responsesResponse
	if err := json.Unmarshal(body, &respResp); err != nil {
		return nil, newDecodeError(err)
	}

	return mapResponsesResponse(&respResp)
}

// buildResponsesRequest converts a core.ChatRequest to the Responses wire format.
func buildResponsesRequest(req *core.ChatRequest) *responsesRequest {
	respReq := &responsesRequest{
		Model:           string(req.Model),
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}

	var instructions []string
	for _, msg := range req.Messages {
		if msg.Role == core.RoleSystem {
			instructions = append(instructions, msg.Content)
			continue
		}
		respReq.Input = append(respReq.Input, responsesInputMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	respReq.Instructions = strings.Join(instructions, "\n")

	return respReq
}

// mapResponsesResponse converts a Responses API response to a core.ChatResponse.
func mapResponsesResponse(resp *responsesResponse) (*core.ChatResponse, error) {
	if resp.Error != nil {
		return nil, &core.APIError{
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Err:     core.ErrServer,
		}
	}

	var output strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, block := range item.Content {
			if block.Type == "output_text" {
				output.WriteString(block.Text)
			}
		}
	}

	return &core.ChatResponse{
		ID:     resp.ID,
		Model:  core.ModelID(resp.Model),
		Output: output.String(),
		Usage: core.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
