package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/scribe-labs/scribe/core"
)

func TestCreateEmbeddings(t *testing.T) {
	var payload openAIEmbeddingRequest
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 0, "embedding": [0.1, 0.2, 0.3]},
				{"object": "embedding", "index": 1, "embedding": [0.4, 0.5, 0.6]}
			],
			"usage": {"prompt_tokens": 8, "total_tokens": 8}
		}`))
	})

	dims := 3
	resp, err := provider.CreateEmbeddings(context.Background(), &core.EmbeddingRequest{
		Model:      "text-embedding-3-small",
		Input:      []string{"first", "second"},
		Dimensions: &dims,
	})
	if err != nil {
		t.Fatalf("CreateEmbeddings() error = %v", err)
	}

	if payload.Model != "text-embedding-3-small" || len(payload.Input) != 2 {
		t.Errorf("wire payload = %+v", payload)
	}
	if payload.Dimensions == nil || *payload.Dimensions != 3 {
		t.Errorf("dimensions = %v, want 3", payload.Dimensions)
	}

	if len(resp.Vectors) != 2 {
		t.Fatalf("vectors = %d, want 2", len(resp.Vectors))
	}
	if resp.Vectors[0].Index != 0 || len(resp.Vectors[0].Vector) != 3 {
		t.Errorf("vector 0 = %+v", resp.Vectors[0])
	}
	if resp.Vectors[1].Vector[2] != 0.6 {
		t.Errorf("vector 1 = %+v, want last component 0.6", resp.Vectors[1])
	}
	if resp.Usage.TotalTokens != 8 {
		t.Errorf("usage = %+v, want total 8", resp.Usage)
	}
}

func TestCreateEmbeddingsBase64(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [{"object": "embedding", "index": 0, "embedding": "AAAA"}],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`))
	})

	resp, err := provider.CreateEmbeddings(context.Background(), &core.EmbeddingRequest{
		Model:          "text-embedding-3-small",
		Input:          []string{"x"},
		EncodingFormat: core.EncodingFormatBase64,
	})
	if err != nil {
		t.Fatalf("CreateEmbeddings() error = %v", err)
	}

	if resp.Vectors[0].VectorB64 != "AAAA" {
		t.Errorf("VectorB64 = %q, want base64 payload", resp.Vectors[0].VectorB64)
	}
	if len(resp.Vectors[0].Vector) != 0 {
		t.Error("float vector should be empty for base64 responses")
	}
}
