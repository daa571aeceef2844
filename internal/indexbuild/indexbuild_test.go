package indexbuild

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectindex/internal/discover"
	"projectindex/internal/lang"
	"projectindex/internal/model"
)

// fakeAdapter parses a tiny line-oriented test format so these tests
// exercise the Builder's own merge/hash/symbol_index/dependency-graph
// logic without depending on a real tree-sitter grammar:
//
//	import ./other
//	symbol Foo
//	symbol Foo calls Bar
type fakeAdapter struct{}

func (fakeAdapter) Language() string { return "fake" }

func (fakeAdapter) Parse(path string, src []byte) (model.ParseResult, error) {
	var out model.ParseResult
	scanner := bufio.NewScanner(bytes.NewReader(src))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "import":
			out.Imports = append(out.Imports, model.ImportEdge{Module: fields[1], DefaultImport: true})
		case "symbol":
			sym := model.SymbolNode{Name: fields[1], Line: line}
			if len(fields) >= 4 && fields[2] == "calls" {
				sym.Calls = []string{fields[3]}
			}
			out.Symbols = append(out.Symbols, sym)
		}
	}
	return out, nil
}

func testRouter() *lang.Router {
	r := lang.NewRouter()
	r.Register(func() lang.Adapter { return fakeAdapter{} }, "fake")
	return r
}

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	abs := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func discoverAll(t *testing.T, root string) []discover.Entry {
	t.Helper()
	entries, err := discover.Discover(root, discover.Options{})
	require.NoError(t, err)
	return entries
}

func TestBuild_PopulatesSymbolIndexWithPathAndLine(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.fake", "symbol Foo\nsymbol Bar\n")

	idx := model.NewProjectIndex(root, time.Time{})
	b := New(testRouter())
	stats, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesTotal)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, "a.fake:1", idx.SymbolIndex["Foo"])
	assert.Equal(t, "a.fake:2", idx.SymbolIndex["Bar"])
}

func TestBuild_DependencyGraphResolvesRelativeImports(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.fake", "import ./b\n")
	writeFile(t, root, "b.fake", "symbol Bee\n")

	idx := model.NewProjectIndex(root, time.Time{})
	b := New(testRouter())
	_, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.fake"}, idx.DependencyGraph["a.fake"].Imports)
	assert.Equal(t, []string{"a.fake"}, idx.DependencyGraph["b.fake"].ImportedBy)
}

func TestBuild_UnchangedContentSkipsReparse(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.fake", "symbol Foo\n")

	idx := model.NewProjectIndex(root, time.Time{})
	b := New(testRouter())
	_, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)

	stats, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesUnchanged)
	assert.Equal(t, 0, stats.FilesIndexed)
}

func TestUpdate_RemovesFilesNoLongerPresent(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.fake", "symbol Foo\n")
	writeFile(t, root, "b.fake", "symbol Bar\n")

	idx := model.NewProjectIndex(root, time.Time{})
	b := New(testRouter())
	_, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)
	require.Len(t, idx.Files, 2)

	require.NoError(t, os.Remove(filepath.Join(root, "b.fake")))
	entries := discoverAll(t, root)
	currentSet := map[string]bool{}
	for _, e := range entries {
		currentSet[e.RelPath] = true
	}

	stats, err := b.Update(context.Background(), entries, currentSet, idx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesRemoved)
	assert.Len(t, idx.Files, 1)
	_, ok := idx.SymbolIndex["Bar"]
	assert.False(t, ok)
}

func TestUpdate_OnlyReparsesChangedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "a.fake", "symbol Foo\n")
	writeFile(t, root, "b.fake", "symbol Bar\n")

	idx := model.NewProjectIndex(root, time.Time{})
	b := New(testRouter())
	_, err := b.Build(context.Background(), root, discoverAll(t, root), idx)
	require.NoError(t, err)

	writeFile(t, root, "a.fake", "symbol Foo\nsymbol Baz\n")
	entries := discoverAll(t, root)
	currentSet := map[string]bool{}
	for _, e := range entries {
		currentSet[e.RelPath] = true
	}
	// Only pass the changed file through Update, leaving b.fake untouched.
	var changed []discover.Entry
	for _, e := range entries {
		if e.RelPath == "a.fake" {
			changed = append(changed, e)
		}
	}

	stats, err := b.Update(context.Background(), changed, currentSet, idx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Contains(t, idx.SymbolIndex, "Baz")
	assert.Contains(t, idx.SymbolIndex, "Bar")
}
