// Package openai implements the OpenAI-compatible provider: chat
// completions with tool calling, SSE streaming, embeddings, audio, and
// the Responses endpoint, all issued through the resilient executor.
package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
)

// DefaultAPIKeyEnvVar is the environment variable name for the API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("openai: OPENAI_API_KEY environment variable not set")

// NewFromEnv creates a new provider using the OPENAI_API_KEY environment variable.
// This is a convenience factory for quick setup:
//
//	provider, err := openai.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := core.NewClient(provider)
func NewFromEnv(opts ...Option) (*OpenAI, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// OpenAI is a provider implementation for OpenAI-compatible APIs.
// OpenAI is safe for concurrent use.
type OpenAI struct {
	config Config
	exec   *resilient.Executor
	logger *slog.Logger
}

// New creates a new provider with the given API key and options.
func New(apiKey string, opts ...Option) *OpenAI {
	cfg := Config{
		APIKey:  core.NewSecret(apiKey),
		BaseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := resilient.New(resilient.Config{
		HTTPClient: cfg.HTTPClient,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})

	return &OpenAI{config: cfg, exec: exec, logger: logger}
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return "openai"
}

// Models returns the list of available models.
func (p *OpenAI) Models() []core.ModelInfo {
	// Return a copy to prevent mutation
	result := make([]core.ModelInfo, len(models))
	copy(result, models)
	return result
}

// Supports reports whether the provider supports the given feature.
func (p *OpenAI) Supports(feature core.Feature) bool {
	switch feature {
	case core.FeatureChat, core.FeatureChatStreaming, core.FeatureToolCalling,
		core.FeatureEmbeddings, core.FeatureAudio, core.FeatureResponses:
		return true
	default:
		return false
	}
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *OpenAI) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())
	headers.Set("Content-Type", "application/json")

	if p.config.OrgID != "" {
		headers.Set("OpenAI-Organization", p.config.OrgID)
	}
	if p.config.ProjectID != "" {
		headers.Set("OpenAI-Project", p.config.ProjectID)
	}

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Chat sends a non-streaming chat request.
func (p *OpenAI) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doChat(ctx, req)
}

// StreamChat sends a streaming chat request.
func (p *OpenAI) StreamChat(ctx context.Context, req *core.ChatRequest) (*core.ChatStream, error) {
	return p.doStreamChat(ctx, req)
}

// Responses sends a chat request through the Responses endpoint instead of
// chat completions.
func (p *OpenAI) Responses(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return p.doResponsesChat(ctx, req)
}

// Compile-time check that OpenAI implements Provider.
var _ core.Provider = (*OpenAI)(nil)

// Compile-time check that OpenAI implements EmbeddingProvider.
var _ core.EmbeddingProvider = (*OpenAI)(nil)

// Compile-time check that OpenAI implements ResponsesProvider.
var _ core.ResponsesProvider = (*OpenAI)(nil)
