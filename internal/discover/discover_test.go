package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, make([]byte, size), 0o644))
}

func TestDiscover_ExcludesDefaultDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "src/main.go", 10)
	writeFile(t, root, "node_modules/pkg/index.js", 10)
	writeFile(t, root, "vendor/lib/lib.go", 10)
	writeFile(t, root, ".git/HEAD", 10)

	entries, err := Discover(root, Options{})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	assert.Contains(t, paths, "src/main.go")
	assert.NotContains(t, paths, "node_modules/pkg/index.js")
	assert.NotContains(t, paths, "vendor/lib/lib.go")
	assert.NotContains(t, paths, ".git/HEAD")
}

func TestDiscover_ExcludesHiddenTopLevelDirsOnly(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".hidden/file.go", 10)
	writeFile(t, root, "src/.hidden-but-nested/file.go", 10)

	entries, err := Discover(root, Options{})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	assert.NotContains(t, paths, ".hidden/file.go")
	// Only top-level dotfiles/dirs are special-cased; nested ones are left
	// to explicit Exclude patterns.
	assert.Contains(t, paths, "src/.hidden-but-nested/file.go")
}

func TestDiscover_ExcludesHiddenTopLevelFilesToo(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".env", 10)
	writeFile(t, root, "src/.hidden-but-nested.go", 10)

	entries, err := Discover(root, Options{})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	assert.NotContains(t, paths, ".env")
	assert.Contains(t, paths, "src/.hidden-but-nested.go")
}

func TestDiscover_ExplicitIncludeOverridesHiddenExclusion(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".env", 10)
	writeFile(t, root, ".config/settings.yaml", 10)
	writeFile(t, root, "visible.go", 10)

	entries, err := Discover(root, Options{Include: []string{".env", ".config", ".config/*"}})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	assert.Contains(t, paths, ".env")
	assert.Contains(t, paths, ".config/settings.yaml")
	assert.NotContains(t, paths, "visible.go")
}

func TestDiscover_MaxFileSizeExcludesOversizedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "small.go", 10)
	writeFile(t, root, "big.go", 100)

	entries, err := Discover(root, Options{MaxFileSize: 50})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	assert.Contains(t, paths, "small.go")
	assert.NotContains(t, paths, "big.go")
}

func TestDiscover_IncludePatternsRestrictResults(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.go", 10)
	writeFile(t, root, "b.py", 10)

	entries, err := Discover(root, Options{Include: []string{"*.go"}})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].RelPath)
}

func TestDiscover_EmptyProjectReturnsEmptySlice(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	entries, err := Discover(root, Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscover_ResultsAreSortedByRelPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "z.go", 10)
	writeFile(t, root, "a.go", 10)
	writeFile(t, root, "m.go", 10)

	entries, err := Discover(root, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"a.go", "m.go", "z.go"}, []string{entries[0].RelPath, entries[1].RelPath, entries[2].RelPath})
}
