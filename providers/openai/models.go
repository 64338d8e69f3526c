package openai

import "github.com/scribe-labs/scribe/core"

// models is the static catalog of commonly used models. OpenAI-compatible
// endpoints accept arbitrary model IDs; the catalog only drives Models()
// and capability lookups.
var models = []core.ModelInfo{
	{
		ID:          "gpt-4o",
		DisplayName: "GPT-4o",
		Capabilities: []core.Feature{
			core.FeatureChat, core.FeatureChatStreaming, core.FeatureToolCalling,
		},
	},
	{
		ID:          "gpt-4o-mini",
		DisplayName: "GPT-4o mini",
		Capabilities: []core.Feature{
			core.FeatureChat, core.FeatureChatStreaming, core.FeatureToolCalling,
		},
	},
	{
		ID:          "gpt-4.1",
		DisplayName: "GPT-4.1",
		Capabilities: []core.Feature{
			core.FeatureChat, core.FeatureChatStreaming, core.FeatureToolCalling,
			core.FeatureResponses,
		},
	},
	{
		ID:           "text-embedding-3-small",
		DisplayName:  "Text Embedding 3 Small",
		Capabilities: []core.Feature{core.FeatureEmbeddings},
	},
	{
		ID:           "text-embedding-3-large",
		DisplayName:  "Text Embedding 3 Large",
		Capabilities: []core.Feature{core.FeatureEmbeddings},
	},
	{
		ID:           "whisper-1",
		DisplayName:  "Whisper",
		Capabilities: []core.Feature{core.FeatureAudio},
	},
	{
		ID:           "tts-1",
		DisplayName:  "TTS-1",
		Capabilities: []core.Feature{core.FeatureAudio},
	},
}

// GetModelInfo returns the catalog entry for a model, or nil when unknown.
func GetModelInfo(id core.ModelID) *core.ModelInfo {
	for i := range models {
		if models[i].ID == id {
			return &models[i]
		}
	}
	return nil
}
