package core

import (
	"context"
	"io"
)

// TranscriptionRequest describes an audio file to transcribe.
type TranscriptionRequest struct {
	Model    ModelID
	Filename string
	Audio    io.Reader

	// Language is an optional ISO-639-1 hint.
	Language string

	// Prompt optionally guides the model's style or supplies vocabulary.
	Prompt string

	// Temperature, when non-nil, controls sampling during decoding.
	Temperature *float32
}

// TranscriptionResponse contains the transcribed text.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// SpeechRequest describes text to synthesize into audio.
type SpeechRequest struct {
	Model ModelID
	Input string
	Voice string

	// Format selects the output container, for example "mp3" or "wav".
	// Providers apply their own default when empty.
	Format string

	// Speed, when non-nil, scales playback speed.
	Speed *float32
}

// AudioProvider is an optional interface for providers that support audio
// transcription and speech synthesis.
type AudioProvider interface {
	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, req *TranscriptionRequest) (*TranscriptionResponse, error)

	// Speech synthesizes audio from text and returns the raw audio bytes.
	Speech(ctx context.Context, req *SpeechRequest) ([]byte, error)
}
