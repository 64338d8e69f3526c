package openai

import (
	"encoding/json"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/tools"
)

// schemaProvider is an interface for tools that provide a JSON schema.
// This allows us to check if a core.Tool also implements the full tools.Tool interface.
type schemaProvider interface {
	Schema() tools.ToolSchema
}

// mapMessages converts core messages to the wire format. Tool-result
// messages expand into one wire message per result, each tagged with the
// tool call it answers.
func mapMessages(msgs []core.Message) []openAIMessage {
	result := make([]openAIMessage, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case core.RoleTool:
			for _, tr := range msg.ToolResults {
				result = append(result, openAIMessage{
					Role:       "tool",
					Content:    marshalToolResultContent(tr.Content),
					ToolCallID: tr.CallID,
				})
			}

		case core.RoleAssistant:
			oaiMsg := openAIMessage{
				Role:    "assistant",
				Content: msg.Content,
			}
			if len(msg.ToolCalls) > 0 {
				oaiMsg.ToolCalls = mapCoreToolCalls(msg.ToolCalls)
			}
			result = append(result, oaiMsg)

		default:
			result = append(result, openAIMessage{
				Role:    string(msg.Role),
				Content: msg.Content,
			})
		}
	}

	return result
}

// marshalToolResultContent serializes a tool result value for the wire.
// Strings pass through unchanged; everything else is JSON-stringified.
func marshalToolResultContent(content any) string {
	if s, ok := content.(string); ok {
		return s
	}
	data, err := json.Marshal(content)
	if err != nil {
		return "null"
	}
	return string(data)
}

// mapCoreToolCalls converts core.ToolCall entries back to the wire format
// for replay in assistant messages.
func mapCoreToolCalls(calls []core.ToolCall) []openAIToolCall {
	result := make([]openAIToolCall, len(calls))
	for i, tc := range calls {
		result[i] = openAIToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: openAIFunctionCall{
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			},
		}
	}
	return result
}

// mapTools converts core tools to the wire tool format.
// Tools that implement schemaProvider will have their schema included.
func mapTools(coreTools []core.Tool) []openAITool {
	if len(coreTools) == 0 {
		return nil
	}

	result := make([]openAITool, len(coreTools))
	for i, t := range coreTools {
		var params json.RawMessage

		if sp, ok := t.(schemaProvider); ok {
			params = sp.Schema().JSONSchema
		}

		// Default to empty object if no schema
		if params == nil {
			params = json.RawMessage(`{}`)
		}

		result[i] = openAITool{
			Type: "function",
			Function: openAIFunction{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  params,
			},
		}
	}
	return result
}

// buildRequest creates a wire request from a core.ChatRequest.
func buildRequest(req *core.ChatRequest, stream bool) *openAIRequest {
	oaiReq := &openAIRequest{
		Model:    string(req.Model),
		Messages: mapMessages(req.Messages),
		Stream:   stream,
	}

	if req.Temperature != nil {
		oaiReq.Temperature = req.Temperature
	}
	if req.MaxTokens != nil {
		oaiReq.MaxTokens = req.MaxTokens
	}

	if len(req.Tools) > 0 {
		oaiReq.Tools = mapTools(req.Tools)
		oaiReq.ToolChoice = "auto"
	}
	// An explicit tool choice overrides the default, and "none" is honored
	// even without advertised tools.
	if req.ToolChoice != "" {
		oaiReq.ToolChoice = string(req.ToolChoice)
	}

	return oaiReq
}
