package openai

import (
	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers"
)

func init() {
	providers.Register("openai", func(apiKey string) core.Provider {
		return New(apiKey)
	})
}
