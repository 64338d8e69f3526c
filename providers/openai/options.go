package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/scribe-labs/scribe/core"
)

// DefaultBaseURL is the default API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds configuration for the OpenAI-compatible provider.
type Config struct {
	// APIKey is the API key (required). Stored as a core.Secret so it is
	// never logged or serialized.
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.openai.com/v1.
	// Any OpenAI-compatible endpoint works.
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each physical request attempt. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries is the number of retries after the initial attempt.
	// Defaults to 5.
	MaxRetries int

	// OrgID is the optional organization ID.
	OrgID string

	// ProjectID is the optional project ID.
	ProjectID string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Logger receives transport and stream diagnostics.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures the provider.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxRetries sets the retry budget for retryable failures.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithOrgID sets the organization ID header.
func WithOrgID(org string) Option {
	return func(c *Config) {
		c.OrgID = org
	}
}

// WithProjectID sets the project ID header.
func WithProjectID(project string) Option {
	return func(c *Config) {
		c.ProjectID = project
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
