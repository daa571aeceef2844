package semcache

import (
	"context"

	"projectindex/internal/errs"
	"projectindex/internal/model"
)

// Result is one semantic_search hit: a cache entry and its similarity to
// the query, highest first.
type Result struct {
	ID    string  `json:"id"`
	File  string  `json:"file"`
	Line  int     `json:"line,omitempty"`
	Score float64 `json:"score"`
}

// DefaultTopK is the truncation applied when a caller doesn't specify k.
const DefaultTopK = 20

// Search embeds query exactly once and ranks cache entries by cosine
// similarity, descending, truncated to k (DefaultTopK if k <= 0).
func Search(ctx context.Context, cache *model.DocCache, query string, k int, embedder Embedder) ([]Result, error) {
	if cache == nil || len(cache.Entries) == 0 {
		return nil, errs.New(errs.IndexMissing, "semantic cache is empty")
	}
	if k <= 0 {
		k = DefaultTopK
	}

	vecs, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errs.New(errs.EmbeddingError, "embedder returned no vector for query")
	}
	queryVec := vecs[0]

	matches := SearchInMemory(cache, queryVec, k)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			ID:    m.Entry.ID,
			File:  m.Entry.File,
			Line:  m.Entry.Line,
			Score: 1 - m.Distance,
		}
	}
	return results, nil
}
