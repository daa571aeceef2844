package semcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/model"
)

func TestNeedsRebuild_NilCache(t *testing.T) {
	t.Parallel()
	assert.True(t, NeedsRebuild(nil, "m1", []string{"a"}))
}

func TestNeedsRebuild_ModelChanged(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{ModelID: "m1", Entries: []model.DocEntry{{Text: "a"}}}
	assert.True(t, NeedsRebuild(cache, "m2", []string{"a"}))
}

func TestNeedsRebuild_CountChanged(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{ModelID: "m1", Entries: []model.DocEntry{{Text: "a"}}}
	assert.True(t, NeedsRebuild(cache, "m1", []string{"a", "b"}))
}

func TestNeedsRebuild_TextChanged(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{ModelID: "m1", Entries: []model.DocEntry{{Text: "a"}}}
	assert.True(t, NeedsRebuild(cache, "m1", []string{"b"}))
}

func TestNeedsRebuild_ExactMatchReuses(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{ModelID: "m1", Entries: []model.DocEntry{{Text: "a"}, {Text: "b"}}}
	assert.False(t, NeedsRebuild(cache, "m1", []string{"a", "b"}))
}

func TestSearchInMemory_RanksByCosineSimilarity(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{
		Entries: []model.DocEntry{
			{ID: "close-match", Text: "a"},
			{ID: "orthogonal", Text: "b"},
			{ID: "opposite", Text: "c"},
		},
		Vectors: [][]float32{
			{1, 0},
			{0, 1},
			{-1, 0},
		},
	}
	matches := SearchInMemory(cache, []float32{1, 0}, 3)
	require.Len(t, matches, 3)
	assert.Equal(t, "close-match", matches[0].Entry.ID)
	assert.Equal(t, "opposite", matches[2].Entry.ID)
}

func TestSearchInMemory_TruncatesToK(t *testing.T) {
	t.Parallel()
	cache := &model.DocCache{
		Entries: []model.DocEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Vectors: [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}},
	}
	matches := SearchInMemory(cache, []float32{1, 0}, 1)
	assert.Len(t, matches, 1)
}

func TestBuildCorpus_DeterministicOrderAndQualifiedNames(t *testing.T) {
	t.Parallel()
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"b.go": {Symbols: []model.SymbolNode{{Name: "Outer", Kind: "func", Line: 1, Children: []model.SymbolNode{
				{Name: "Inner", Kind: "func", Line: 2},
			}}}},
			"a.go": {Symbols: []model.SymbolNode{{Name: "Top", Kind: "func", Line: 1}}},
		},
	}
	entries := BuildCorpus(idx)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.go", entries[0].File)
	assert.Equal(t, "a.go:Top", entries[0].ID)
	assert.Equal(t, "b.go:Outer", entries[1].ID)
	assert.Equal(t, "b.go:Outer.Inner", entries[2].ID)
}

type fakeEmbedder struct {
	model string
	dim   int
}

func (f fakeEmbedder) Model() string { return f.model }

func (f fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
		out[i][0] = 1
	}
	return out, nil
}

func TestSync_RebuildsAndPersistsWhenCacheMissing(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"a.go": {Symbols: []model.SymbolNode{{Name: "Foo", Kind: "func", Line: 1}}},
		},
	}

	cache, err := Sync(context.Background(), root, idx, fakeEmbedder{model: "m1", dim: 4})
	require.NoError(t, err)
	require.Len(t, cache.Entries, 1)
	assert.Equal(t, "m1", cache.ModelID)
	assert.Equal(t, 4, cache.Dim)
}

func TestSync_ReusesPersistedCacheWhenUnchanged(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	idx := &model.ProjectIndex{
		Files: map[string]model.FileRecord{
			"a.go": {Symbols: []model.SymbolNode{{Name: "Foo", Kind: "func", Line: 1}}},
		},
	}
	embedder := fakeEmbedder{model: "m1", dim: 4}

	first, err := Sync(context.Background(), root, idx, embedder)
	require.NoError(t, err)

	second, err := Sync(context.Background(), root, idx, embedder)
	require.NoError(t, err)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, first.Vectors, second.Vectors)
}
