package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRouter_ResolvesEveryConventionalExtension(t *testing.T) {
	t.Parallel()
	r := DefaultRouter()

	cases := []struct {
		path string
		lang string
	}{
		{"main.go", "go"},
		{"script.py", "python"},
		{"lib.rs", "rust"},
		{"deploy.sh", "shell"},
		{"deploy.bash", "shell"},
		{"app.js", "javascript"},
		{"app.jsx", "javascript"},
		{"app.mjs", "javascript"},
		{"app.cjs", "javascript"},
		{"app.ts", "typescript"},
		{"app.tsx", "typescript"},
	}

	for _, c := range cases {
		a, ok := r.Resolve(c.path)
		require.True(t, ok, "expected %s to resolve", c.path)
		require.NotNil(t, a)
		assert.Equal(t, c.lang, a.Language(), "language for %s", c.path)
	}
}

func TestDefaultRouter_JSFamilySharesOneAdapterInstance(t *testing.T) {
	t.Parallel()
	r := DefaultRouter()
	js, ok := r.Resolve("a.js")
	require.True(t, ok)
	jsx, ok := r.Resolve("b.jsx")
	require.True(t, ok)
	assert.Same(t, js, jsx)
}

func TestDefaultRouter_TSAndTSXAreDistinctAdapters(t *testing.T) {
	t.Parallel()
	r := DefaultRouter()
	ts, ok := r.Resolve("a.ts")
	require.True(t, ok)
	tsx, ok := r.Resolve("b.tsx")
	require.True(t, ok)
	assert.NotSame(t, ts, tsx)
}

func TestDefaultRouter_UnknownExtensionIsUnresolved(t *testing.T) {
	t.Parallel()
	r := DefaultRouter()
	_, ok := r.Resolve("README.md")
	assert.False(t, ok)
}
