package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelative(t *testing.T) {
	t.Parallel()
	assert.True(t, IsRelative("./foo"))
	assert.True(t, IsRelative("../bar/baz"))
	assert.False(t, IsRelative("foo"))
	assert.False(t, IsRelative("github.com/foo/bar"))
	assert.False(t, IsRelative("/abs/path"))
}

func TestResolve_DirectFileMatch(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"pkg/foo.go": true, "pkg/bar.go": true}
	r := New(known, []string{"go"})

	got, ok := r.Resolve("pkg/bar.go", "./foo.go")
	require.True(t, ok)
	assert.Equal(t, "pkg/foo.go", got)
}

func TestResolve_ExtensionProbing(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"src/utils.ts": true}
	r := New(known, []string{"ts", "tsx", "js"})

	got, ok := r.Resolve("src/main.ts", "./utils")
	require.True(t, ok)
	assert.Equal(t, "src/utils.ts", got)
}

func TestResolve_IndexFileFallback(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"src/components/index.tsx": true}
	r := New(known, []string{"ts", "tsx"})

	got, ok := r.Resolve("src/app.tsx", "./components")
	require.True(t, ok)
	assert.Equal(t, "src/components/index.tsx", got)
}

func TestResolve_ParentDirTraversal(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"lib.go": true}
	r := New(known, []string{"go"})

	got, ok := r.Resolve("pkg/sub/file.go", "../../lib.go")
	require.True(t, ok)
	assert.Equal(t, "lib.go", got)
}

func TestResolve_Unresolvable(t *testing.T) {
	t.Parallel()
	r := New(map[string]bool{}, []string{"go"})
	_, ok := r.Resolve("pkg/file.go", "./missing")
	assert.False(t, ok)
}

func TestResolve_NonRelativeSpecifierNeverResolves(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"foo.go": true}
	r := New(known, []string{"go"})
	_, ok := r.Resolve("bar.go", "foo")
	assert.False(t, ok)
}
