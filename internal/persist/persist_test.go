package persist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/model"
)

func TestSaveAndLoadIndex_RoundTrips(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	idx := model.NewProjectIndex(root, time.Now())
	idx.Files["a.go"] = model.FileRecord{Path: "a.go", Language: model.LangGo}
	idx.SymbolIndex["Foo"] = "a.go:10"

	require.NoError(t, SaveIndex(root, idx))

	loaded, ok, err := LoadIndex(root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idx.SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, "a.go:10", loaded.SymbolIndex["Foo"])
	assert.Contains(t, loaded.Files, "a.go")
}

func TestLoadIndex_MissingReturnsFalseNotError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	_, ok, err := LoadIndex(root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoadDocCache_RoundTrips(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	cache := &model.DocCache{
		ModelID: "nomic-embed-text",
		Dim:     3,
		Entries: []model.DocEntry{
			{ID: "a.go:Foo", File: "a.go", Line: 10, Text: "func Foo"},
			{ID: "b.go:Bar", File: "b.go", Line: 5, Text: "func Bar"},
		},
		Vectors: [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
	}

	require.NoError(t, SaveDocCache(root, cache))

	loaded, ok, err := LoadDocCache(root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cache.ModelID, loaded.ModelID)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, "a.go:Foo", loaded.Entries[0].ID)
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, loaded.Vectors[1])
}

func TestLoadDocCache_MissingReturnsFalseNotError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	_, ok, err := LoadDocCache(root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoadOverview_RoundTrips(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, SaveOverview(root, "# Overview\n\nThis project does X.\n"))

	md, ok, err := LoadOverview(root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, md, "This project does X.")
}

func TestLoadOverview_MissingReturnsFalseNotError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	_, ok, err := LoadOverview(root)
	require.NoError(t, err)
	assert.False(t, ok)
}
