package openai

// Responses API request/response types.

// responsesRequest represents a request to the Responses API.
type responsesRequest struct {
	Model           string                  `json:"model"`
	Input           []responsesInputMessage `json:"input"`
	Instructions    string                  `json:"instructions,omitempty"`
	MaxOutputTokens *int                    `json:"max_output_tokens,omitempty"`
	Temperature     *float32                `json:"temperature,omitempty"`
}

// responsesInputMessage represents a message in the Responses API input.
type responsesInputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responsesResponse represents a response from the Responses API.
type responsesResponse struct {
	ID     string                 `json:"id"`
	Object string                 `json:"object"`
	Model  string                 `json:"model"`
	Status string                 `json:"status"`
	Output []responsesOutputItem  `json:"output"`
	Usage  responsesUsage         `json:"usage"`
	Error  *responsesErrorDetails `json:"error,omitempty"`
}

// responsesOutputItem represents one item in the output array.
type responsesOutputItem struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Role    string                 `json:"role,omitempty"`
	Content []responsesOutputBlock `json:"content,omitempty"`
}

// responsesOutputBlock is a content block within an output message.
type responsesOutputBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// responsesUsage contains token usage for a Responses API call.
type responsesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// responsesErrorDetails carries an error embedded in a completed response.
type responsesErrorDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
