package openai

// openAISpeechRequest is the request body for POST /audio/speech.
type openAISpeechRequest struct {
	Model          string   `json:"model"`
	Input          string   `json:"input"`
	Voice          string   `json:"voice"`
	ResponseFormat string   `json:"response_format,omitempty"`
	Speed          *float32 `json:"speed,omitempty"`
}

// openAITranscriptionResponse is the response from POST /audio/transcriptions
// in the default json response format.
type openAITranscriptionResponse struct {
	Text string `json:"text"`
}
