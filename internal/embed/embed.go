// Package embed provides the Embedding Provider: a lazily-constructed,
// process-wide singleton client for an Ollama embedding model, with
// L2-normalization applied to every returned vector so downstream
// cosine-similarity search operates on a consistent unit convention
// regardless of the model's raw output.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"projectindex/internal/errs"
)

// Provider embeds text via Ollama's /api/embed endpoint.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
}

// New creates a Provider targeting the given Ollama instance and model.
func New(baseURL, model string) *Provider {
	return &Provider{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Model returns the configured model identifier, used as the DocCache's
// ModelID for the "does the cache still apply" reuse check.
func (p *Provider) Model() string { return p.model }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed sends a batch of texts and returns L2-normalized embeddings in
// the same order.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, errs.Wrap(errs.EmbeddingError, "marshal embed request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.EmbeddingError, "build embed request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.EmbeddingError, "embed request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errs.New(errs.EmbeddingError, fmt.Sprintf("embed endpoint returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errs.Wrap(errs.EmbeddingError, "decode embed response", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, errs.New(errs.EmbeddingError, fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(result.Embeddings)))
	}

	for _, vec := range result.Embeddings {
		normalize(vec)
	}
	return result.Embeddings, nil
}

// normalize scales vec to unit L2 norm in place; the zero vector is left
// unchanged rather than dividing by zero.
func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
}

var (
	singletonMu sync.Mutex
	singleton   *Provider
)

// Singleton returns the process-wide Provider, constructing it on first
// use and reconstructing it only when the requested baseURL or model
// differs from what's already built.
func Singleton(baseURL, model string) *Provider {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil || singleton.model != model || singleton.baseURL != baseURL {
		singleton = New(baseURL, model)
	}
	return singleton
}
