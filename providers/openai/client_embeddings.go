package openai

import (
	"context"
	"encoding/json"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/internal/resilient"
)

const embeddingsPath = "/embeddings"

// CreateEmbeddings generates embeddings for the given input texts.
func (p *OpenAI) CreateEmbeddings(ctx context.Context, req *core.EmbeddingRequest) (*core.EmbeddingResponse, error) {
	body, err := p.exec.Do(ctx, resilient.Request{
		URL:    p.config.BaseURL + embeddingsPath,
		Body:   buildEmbeddingRequest(req),
		Header: p.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}

	var oaiResp openAIEmbeddingResponse
	if err := json.Unmarshal(body, &oaiResp); err != nil {
		return nil, newDecodeError(err)
	}

	return mapEmbeddingResponse(&oaiResp), nil
}

// buildEmbeddingRequest converts a core request to the wire format.
func buildEmbeddingRequest(req *core.EmbeddingRequest) *openAIEmbeddingRequest {
	oaiReq := &openAIEmbeddingRequest{
		Model: string(req.Model),
		Input: req.Input,
		User:  req.User,
	}

	if req.EncodingFormat != "" {
		oaiReq.EncodingFormat = string(req.EncodingFormat)
	}
	if req.Dimensions != nil {
		oaiReq.Dimensions = req.Dimensions
	}

	return oaiReq
}

// mapEmbeddingResponse converts a wire response to core format.
func mapEmbeddingResponse(resp *openAIEmbeddingResponse) *core.EmbeddingResponse {
	vectors := make([]core.EmbeddingVector, len(resp.Data))

	for i, data := range resp.Data {
		vec := core.EmbeddingVector{
			Index: data.Index,
		}

		// The embedding is a float array or a base64 string depending on
		// the requested encoding format.
		switch emb := data.Embedding.(type) {
		case []interface{}:
			vec.Vector = make([]float32, len(emb))
			for j, v := range emb {
				if f, ok := v.(float64); ok {
					vec.Vector[j] = float32(f)
				}
			}
		case string:
			vec.VectorB64 = emb
		}

		vectors[i] = vec
	}

	return &core.EmbeddingResponse{
		Vectors: vectors,
		Model:   core.ModelID(resp.Model),
		Usage: core.EmbeddingUsage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
}
