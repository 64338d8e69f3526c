package commands

import (
	"fmt"

	"github.com/scribe-labs/scribe/cli/config"
	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers"
	"github.com/scribe-labs/scribe/providers/openai"
)

type providerConstructor func(apiKey, baseURL string) (core.Provider, error)

func defaultProviderFactory() ProviderFactory {
	constructors := map[string]providerConstructor{
		"openai": func(apiKey, baseURL string) (core.Provider, error) {
			var opts []openai.Option
			if baseURL != "" {
				opts = append(opts, openai.WithBaseURL(baseURL))
			}
			return openai.New(apiKey, opts...), nil
		},
	}

	return func(providerID, apiKey string, cfg *config.Config) (core.Provider, error) {
		baseURL := providerBaseURL(cfg, providerID)
		if ctor, ok := constructors[providerID]; ok {
			return ctor(apiKey, baseURL)
		}

		// Fall back to registry for externally-registered providers.
		if providers.IsRegistered(providerID) {
			return providers.Create(providerID, apiKey)
		}

		return nil, fmt.Errorf("unsupported provider: %s (available: %v)", providerID, providers.List())
	}
}

func providerBaseURL(cfg *config.Config, providerID string) string {
	if cfg == nil {
		return ""
	}
	pc := cfg.GetProvider(providerID)
	if pc == nil {
		return ""
	}
	return pc.BaseURL
}
