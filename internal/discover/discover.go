// Package discover walks a project root and yields the set of files a
// build should index: include/exclude glob filtering, a size cap, and
// hidden top-level entries excluded by default, returned in lexicographic
// order so downstream stages see a deterministic file list.
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"projectindex/internal/errs"
)

// Entry describes one discovered file, relative to the project root.
type Entry struct {
	RelPath string
	AbsPath string
	Size    int64
}

// Options configures a Discoverer.
type Options struct {
	// Include, when non-empty, restricts results to paths matching at
	// least one of these glob patterns (matched against the repo-relative,
	// slash-separated path). An empty Include matches everything.
	Include []string
	// Exclude drops any path matching one of these glob patterns, applied
	// after Include.
	Exclude []string
	// MaxFileSize is the largest file, in bytes, that will be discovered.
	// Zero means no cap is attempted beyond the default below.
	MaxFileSize int64
}

// DefaultMaxFileSize mirrors the teacher's 1 MiB cap.
const DefaultMaxFileSize int64 = 1 << 20

var defaultExcludeDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "vendor": true, "__pycache__": true,
	".idea": true, ".vscode": true, ".context": true,
	"dist": true, "build": true, "target": true,
}

// Discover walks root and returns every matching file, sorted by RelPath.
func Discover(root string, opts Options) ([]Entry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, "resolve project root", err)
	}
	maxSize := opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	var out []Entry
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if defaultExcludeDirs[name] {
				return fs.SkipDir
			}
			if isHiddenTopLevel(rel, name) && !explicitlyIncluded(rel, opts.Include) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if isHiddenTopLevel(rel, name) && !explicitlyIncluded(rel, opts.Include) {
			return nil
		}
		if !matchesInclude(rel, opts.Include) || matchesAny(rel, opts.Exclude) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		out = append(out, Entry{RelPath: rel, AbsPath: path, Size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return nil, errs.Wrap(errs.IOError, "walk project root", walkErr)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}

// isHiddenTopLevel reports whether rel names a dotfile/dotdir sitting
// directly under the project root — hidden entries below the root are
// left to Exclude patterns instead.
func isHiddenTopLevel(rel, name string) bool {
	return !strings.Contains(rel, "/") && strings.HasPrefix(name, ".")
}

// explicitlyIncluded reports whether rel is named by one of patterns. An
// empty pattern list matches everything by default but that default
// doesn't count as "matched explicitly" for hidden-entry purposes.
func explicitlyIncluded(rel string, patterns []string) bool {
	return len(patterns) > 0 && matchesAny(rel, patterns)
}

func matchesInclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(rel, patterns)
}

func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}
