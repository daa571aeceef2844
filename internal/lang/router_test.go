package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/model"
)

type stubAdapter struct {
	lang  string
	calls int
}

func (s *stubAdapter) Language() string { return s.lang }
func (s *stubAdapter) Parse(path string, src []byte) (model.ParseResult, error) {
	s.calls++
	return model.ParseResult{}, nil
}

func TestRouter_ResolveUnregisteredExtension(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	a, ok := r.Resolve("main.go")
	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestRouter_ResolveNoExtension(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	r.Register(func() Adapter { return &stubAdapter{lang: "go"} }, "go")
	a, ok := r.Resolve("Makefile")
	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestRouter_ResolveBuildsLazilyAndCaches(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	built := 0
	r.Register(func() Adapter {
		built++
		return &stubAdapter{lang: "go"}
	}, "go")

	a1, ok := r.Resolve("pkg/main.go")
	require.True(t, ok)
	a2, ok := r.Resolve("pkg/other.go")
	require.True(t, ok)

	assert.Equal(t, 1, built)
	assert.Same(t, a1, a2)
}

func TestRouter_SharedFactoryAcrossSiblingExtensions(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	built := 0
	r.Register(func() Adapter {
		built++
		return &stubAdapter{lang: "js"}
	}, "js", "jsx", "mjs")

	a1, ok := r.Resolve("a.js")
	require.True(t, ok)
	a2, ok := r.Resolve("b.jsx")
	require.True(t, ok)
	a3, ok := r.Resolve("c.mjs")
	require.True(t, ok)

	assert.Equal(t, 1, built)
	assert.Same(t, a1, a2)
	assert.Same(t, a2, a3)
}

func TestRouter_ExtensionLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	r.Register(func() Adapter { return &stubAdapter{lang: "go"} }, "go")

	_, ok := r.Resolve("main.GO")
	assert.True(t, ok)
}

func TestRouter_Extensions_ListsAllRegistered(t *testing.T) {
	t.Parallel()
	r := NewRouter()
	r.Register(func() Adapter { return &stubAdapter{lang: "go"} }, "go")
	r.Register(func() Adapter { return &stubAdapter{lang: "js"} }, "js", "jsx")

	exts := r.Extensions()
	assert.True(t, exts["go"])
	assert.True(t, exts["js"])
	assert.True(t, exts["jsx"])
	assert.Len(t, exts, 3)
}
