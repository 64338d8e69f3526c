package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
)

const (
	transcriptionsPath = "/audio/transcriptions"
	speechPath         = "/audio/speech"

	// DefaultVoice is used for speech synthesis when the request does not
	// name one.
	DefaultVoice = "alloy"
)

// Transcribe converts audio to text. The audio content is read fully up
// front so retried attempts send an identical payload.
func (p *OpenAI) Transcribe(ctx context.Context, req *core.TranscriptionRequest) (*core.TranscriptionResponse, error) {
	payload, contentType, err := buildTranscriptionForm(req)
	if err != nil {
		return nil, err
	}

	header := p.buildHeaders()
	header.Set("Content-Type", contentType)

	body, err := p.exec.Do(ctx, resilient.Request{
		URL:     p.config.BaseURL + transcriptionsPath,
		RawBody: payload,
		Header:  header,
	})
	if err != nil {
		return nil, err
	}

	var oaiResp openAITranscriptionResponse
	if err := json.Unmarshal(body, &oaiResp); err != nil {
		return nil, newDecodeError(err)
	}

	return &core.TranscriptionResponse{Text: oaiResp.Text}, nil
}

// Speech synthesizes audio from text and returns the raw audio bytes.
func (p *OpenAI) Speech(ctx context.Context, req *core.SpeechRequest) ([]byte, error) {
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	return p.exec.Do(ctx, resilient.Request{
		URL: p.config.BaseURL + speechPath,
		Body: &openAISpeechRequest{
			Model:          string(req.Model),
			Input:          req.Input,
			Voice:          voice,
			ResponseFormat: req.Format,
			Speed:          req.Speed,
		},
		Header: p.buildHeaders(),
	})
}

// buildTranscriptionForm encodes the transcription request as a multipart
// form, returning the encoded body and its content type.
func buildTranscriptionForm(req *core.TranscriptionRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", string(req.Model)); err != nil {
		return nil, "", fmt.Errorf("failed to write model field: %w", err)
	}
	if req.Language != "" {
		if err := w.WriteField("language", req.Language); err != nil {
			return nil, "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if req.Prompt != "" {
		if err := w.WriteField("prompt", req.Prompt); err != nil {
			return nil, "", fmt.Errorf("failed to write prompt field: %w", err)
		}
	}
	if req.Temperature != nil {
		value := strconv.FormatFloat(float64(*req.Temperature), 'f', -1, 32)
		if err := w.WriteField("temperature", value); err != nil {
			return nil, "", fmt.Errorf("failed to write temperature field: %w", err)
		}
	}

	filename := req.Filename
	if filename == "" {
		filename = "audio"
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, req.Audio); err != nil {
		return nil, "", fmt.Errorf("failed to copy audio content: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

var _ core.AudioProvider = (*OpenAI)(nil)
