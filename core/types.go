// Package core provides the Scribe SDK client and types.
package core

import "encoding/json"

// ModelID is a string identifier for a model.
// Using string avoids coupling to provider-specific enums.
type ModelID string

// Feature represents a capability that a provider may support.
type Feature string

const (
	FeatureChat          Feature = "chat"
	FeatureChatStreaming Feature = "chat_streaming"
	FeatureToolCalling   Feature = "tool_calling"
	FeatureEmbeddings    Feature = "embeddings"
	FeatureAudio         Feature = "audio"
	FeatureResponses     Feature = "responses"
)

// ModelInfo describes a model available from a provider.
type ModelInfo struct {
	ID           ModelID   `json:"id"`
	DisplayName  string    `json:"display_name"`
	Capabilities []Feature `json:"capabilities"`
}

// HasCapability reports whether the model supports the given feature.
func (m ModelInfo) HasCapability(f Feature) bool {
	for _, cap := range m.Capabilities {
		if cap == f {
			return true
		}
	}
	return false
}

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool" // For tool result messages
)

// Message represents a single message in a conversation.
type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`   // For assistant messages requesting tools
	ToolResults []ToolResult `json:"tool_results,omitempty"` // For tool result messages (RoleTool)
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolCall represents a tool invocation requested by the model.
// Arguments carry the model's raw bytes without reformatting; they are
// usually JSON but may be malformed, and the tool loop turns malformed
// arguments into error results rather than running the tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult represents the outcome of executing a tool.
// Content can be any JSON-serializable value.
type ToolResult struct {
	CallID  string `json:"call_id"`  // Must match ToolCall.ID from the response
	Content any    `json:"content"`  // Result data (will be JSON marshaled)
	IsError bool   `json:"is_error"` // True if this represents an error
}

// ToolResultBuilder provides a fluent API for constructing tool results.
type ToolResultBuilder struct {
	results []ToolResult
}

// NewToolResults creates a new builder for tool results.
func NewToolResults() *ToolResultBuilder {
	return &ToolResultBuilder{
		results: make([]ToolResult, 0),
	}
}

// Success adds a successful tool result.
func (b *ToolResultBuilder) Success(callID string, content any) *ToolResultBuilder {
	b.results = append(b.results, ToolResult{
		CallID:  callID,
		Content: content,
		IsError: false,
	})
	return b
}

// Error adds a failed tool result.
func (b *ToolResultBuilder) Error(callID string, err error) *ToolResultBuilder {
	b.results = append(b.results, ToolResult{
		CallID:  callID,
		Content: map[string]string{"error": err.Error()},
		IsError: true,
	})
	return b
}

// FromExecution adds a result from a tool execution, handling both success and error cases.
func (b *ToolResultBuilder) FromExecution(callID string, result any, err error) *ToolResultBuilder {
	if err != nil {
		return b.Error(callID, err)
	}
	return b.Success(callID, result)
}

// Build returns the accumulated results.
func (b *ToolResultBuilder) Build() []ToolResult {
	return b.results
}

// Tool is the minimal surface a tool must expose to be advertised to the
// model. The full execution interface lives in the tools package.
type Tool interface {
	Name() string
	Description() string
}

// ToolChoice directs how the model may use the advertised tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide whether to call a tool.
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone forbids tool calls, forcing a plain-text answer.
	ToolChoiceNone ToolChoice = "none"
)

// ChatRequest represents a request to a chat model.
type ChatRequest struct {
	Model       ModelID    `json:"model"`
	Messages    []Message  `json:"messages"`
	Temperature *float32   `json:"temperature,omitempty"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
	Tools       []Tool     `json:"-"` // Tools are handled separately by providers
	ToolChoice  ToolChoice `json:"-"` // Defaults to "auto" when Tools are present
}

// ChatResponse represents a response from a chat model.
// For providers returning multiple choices, only the first choice is used.
type ChatResponse struct {
	ID        string     `json:"id"`
	Model     ModelID    `json:"model"`
	Output    string     `json:"output"`
	Usage     TokenUsage `json:"usage"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls reports whether the response contains any tool calls.
func (r *ChatResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// FirstToolCall returns the first tool call, or nil if there are none.
func (r *ChatResponse) FirstToolCall() *ToolCall {
	if len(r.ToolCalls) > 0 {
		return &r.ToolCalls[0]
	}
	return nil
}

// ChatChunk represents an incremental streaming response.
// Delta contains incremental assistant text. Role defaults to assistant
// when the wire frame omits it.
type ChatChunk struct {
	Role  Role   `json:"role,omitempty"`
	Delta string `json:"delta"`
}
