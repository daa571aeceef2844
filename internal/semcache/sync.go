package semcache

import (
	"context"

	"projectindex/internal/embed"
	"projectindex/internal/model"
	"projectindex/internal/persist"
)

// Embedder is the subset of embed.Provider that Sync needs, so tests can
// supply a fake without standing up an Ollama instance.
type Embedder interface {
	Model() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Sync brings the persisted semantic cache in line with idx: if the cache
// already matches (model_id, entry_count, entry_texts) it is loaded and
// returned unchanged; otherwise every symbol is re-embedded and the
// result is written back via internal/persist before returning.
func Sync(ctx context.Context, projectRoot string, idx *model.ProjectIndex, embedder Embedder) (*model.DocCache, error) {
	entries := BuildCorpus(idx)
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}

	cached, ok, err := persist.LoadDocCache(projectRoot)
	if err != nil {
		return nil, err
	}
	if ok && !NeedsRebuild(cached, embedder.Model(), texts) {
		return cached, nil
	}

	vectors, err := embedBatched(ctx, embedder, texts)
	if err != nil {
		return nil, err
	}

	cache := &model.DocCache{
		ModelID: embedder.Model(),
		Entries: entries,
		Vectors: vectors,
	}
	if len(vectors) > 0 {
		cache.Dim = len(vectors[0])
	}
	if err := persist.SaveDocCache(projectRoot, cache); err != nil {
		return nil, err
	}
	return cache, nil
}

// batchSize caps how many texts go into a single Ollama request; large
// symbol sets would otherwise produce one oversized call.
const batchSize = 64

func embedBatched(ctx context.Context, embedder Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

var _ Embedder = (*embed.Provider)(nil)
