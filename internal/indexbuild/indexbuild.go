// Package indexbuild implements the Index Builder: a full build over a
// discovered file set, and an incremental update over a changed subset.
// Per-file parsing runs in parallel; the merge into the ProjectIndex is a
// single serial step so the result is deterministic regardless of
// goroutine scheduling, mirroring the teacher's staged-pipeline shape
// generalized from "hash -> chunk -> embed -> store" to "hash -> parse ->
// merge".
package indexbuild

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"projectindex/internal/discover"
	"projectindex/internal/errs"
	"projectindex/internal/hashsum"
	"projectindex/internal/lang"
	"projectindex/internal/model"
	"projectindex/internal/resolve"
)

// Stats reports the outcome of a build or update.
type Stats struct {
	FilesTotal     int
	FilesIndexed   int
	FilesUnchanged int
	FilesRemoved   int
}

// Builder owns the router used to parse discovered files.
type Builder struct {
	Router     *lang.Router
	NumWorkers int
}

// New creates a Builder with the given router. NumWorkers defaults to
// runtime.NumCPU() when zero.
func New(router *lang.Router) *Builder {
	return &Builder{Router: router, NumWorkers: runtime.NumCPU()}
}

type parsedFile struct {
	relPath string
	record  model.FileRecord
	err     error
}

// Build performs a full build over entries: each file is read and hashed,
// files whose hash matches the record already in idx keep that record, and
// the rest are parsed. symbol_index and dependency_graph are rebuilt from
// all of idx.Files. Records for paths not among entries stay in idx, and
// CreatedAt is left as idx has it.
func (b *Builder) Build(ctx context.Context, projectRoot string, entries []discover.Entry, idx *model.ProjectIndex) (*Stats, error) {
	idx.ProjectRoot = projectRoot
	return b.apply(ctx, entries, idx, nil)
}

// Update performs an incremental update: only the given changed entries
// are re-parsed; files in idx.Files that no longer appear in currentSet
// are removed.
func (b *Builder) Update(ctx context.Context, changed []discover.Entry, currentSet map[string]bool, idx *model.ProjectIndex) (*Stats, error) {
	return b.apply(ctx, changed, idx, currentSet)
}

func (b *Builder) apply(ctx context.Context, entries []discover.Entry, idx *model.ProjectIndex, currentSet map[string]bool) (*Stats, error) {
	stats := &Stats{FilesTotal: len(entries)}

	results := make([]parsedFile, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	workers := b.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			src, err := os.ReadFile(entry.AbsPath)
			if err != nil {
				results[i] = parsedFile{relPath: entry.RelPath, err: errs.Wrap(errs.IOError, "read "+entry.RelPath, err)}
				return nil
			}

			hash := hashsum.Hash(src)
			if existing, ok := idx.Files[entry.RelPath]; ok && existing.ContentHash == hash {
				results[i] = parsedFile{relPath: entry.RelPath, record: existing}
				return nil
			}

			record := model.FileRecord{
				Path:          entry.RelPath,
				SizeBytes:     entry.Size,
				ContentHash:   hash,
				Language:      model.LangUnknown,
				LastIndexedAt: nowFunc(),
			}

			adapter, ok := b.Router.Resolve(entry.RelPath)
			if !ok {
				results[i] = parsedFile{relPath: entry.RelPath, record: record}
				return nil
			}
			record.Language = adapter.Language()

			parsed, parseErr := adapter.Parse(entry.RelPath, src)
			if parseErr != nil {
				// A parse failure still indexes the file with empty
				// extraction arrays; it is not a build-aborting error.
				results[i] = parsedFile{relPath: entry.RelPath, record: record}
				return nil
			}
			record.Imports = parsed.Imports
			record.Exports = parsed.Exports
			record.Symbols = parsed.Symbols
			record.Outline = parsed.Outline
			record.UIComponents = parsed.UIComponents
			record.APIEndpoints = parsed.APIEndpoints

			results[i] = parsedFile{relPath: entry.RelPath, record: record}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Serial merge: deterministic regardless of goroutine completion order.
	for i, entry := range entries {
		r := results[i]
		if prev, existed := idx.Files[entry.RelPath]; existed && prev.ContentHash == r.record.ContentHash {
			stats.FilesUnchanged++
		} else {
			stats.FilesIndexed++
		}
		idx.Files[entry.RelPath] = r.record
	}

	if currentSet != nil {
		for path := range idx.Files {
			if !currentSet[path] {
				delete(idx.Files, path)
				stats.FilesRemoved++
			}
		}
	}

	rebuildSymbolIndex(idx)
	rebuildDependencyGraph(idx, b.Router)
	idx.UpdatedAt = nowFunc()

	return stats, nil
}

var nowFunc = time.Now

// sortedPaths returns the keys of idx.Files in lexicographic order.
func sortedPaths(idx *model.ProjectIndex) []string {
	paths := make([]string, 0, len(idx.Files))
	for p := range idx.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func rebuildSymbolIndex(idx *model.ProjectIndex) {
	idx.SymbolIndex = make(map[string]string)
	for _, path := range sortedPaths(idx) {
		rec := idx.Files[path]
		var walk func(prefix string, nodes []model.SymbolNode)
		walk = func(prefix string, nodes []model.SymbolNode) {
			for _, sym := range nodes {
				qualified := sym.Name
				if prefix != "" {
					qualified = prefix + "." + sym.Name
				}
				idx.SymbolIndex[qualified] = fmt.Sprintf("%s:%d", path, sym.Line)
				if len(sym.Children) > 0 {
					walk(qualified, sym.Children)
				}
			}
		}
		walk("", rec.Symbols)
	}
}

func rebuildDependencyGraph(idx *model.ProjectIndex, router *lang.Router) {
	paths := sortedPaths(idx)
	idx.DependencyGraph = make(map[string]model.DependencyEdges, len(idx.Files))
	for path := range idx.Files {
		idx.DependencyGraph[path] = model.DependencyEdges{}
	}

	known := make(map[string]bool, len(idx.Files))
	for path := range idx.Files {
		known[path] = true
	}
	exts := router.Extensions()
	extList := make([]string, 0, len(exts))
	for e := range exts {
		extList = append(extList, e)
	}
	sort.Strings(extList)
	resolver := resolve.New(known, extList)

	for _, path := range paths {
		rec := idx.Files[path]
		edges := idx.DependencyGraph[path]
		for _, imp := range rec.Imports {
			target := imp.Module
			if resolve.IsRelative(imp.Module) {
				if resolved, ok := resolver.Resolve(path, imp.Module); ok {
					target = resolved
				}
			}
			edges.Imports = append(edges.Imports, target)
		}
		idx.DependencyGraph[path] = edges
	}

	for _, path := range paths {
		edges := idx.DependencyGraph[path]
		for _, target := range edges.Imports {
			if !known[target] {
				continue // external or unresolved specifier
			}
			rev := idx.DependencyGraph[target]
			rev.ImportedBy = append(rev.ImportedBy, path)
			idx.DependencyGraph[target] = rev
		}
	}
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
		if s[i] == '/' {
			return -1
		}
	}
	return -1
}
