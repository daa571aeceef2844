// Package resolve turns a relative import specifier ("./foo", "../bar")
// into the repo-relative file path it points at, by probing the
// extensions the router knows about plus each extension's "/index.<ext>"
// form. Non-relative specifiers (bare module names, absolute package
// imports) are left to the dependency graph's "imports-only" bucket —
// this package only resolves edges that can land inside the index.
package resolve

import (
	"path"
	"strings"
)

// Resolver resolves relative import specifiers against a known file set.
type Resolver struct {
	known map[string]bool // repo-relative paths that exist in the index
	exts  []string        // tried in order, without leading dots
}

// New creates a Resolver. known should contain every file's RelPath;
// exts is the router's registered extension set, order doesn't matter
// for correctness but a stable order keeps resolution deterministic when
// multiple candidate files could exist (it won't in a well-formed repo).
func New(known map[string]bool, exts []string) *Resolver {
	return &Resolver{known: known, exts: exts}
}

// IsRelative reports whether specifier is a relative module path rather
// than a bare/absolute package specifier.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// Resolve returns the repo-relative path specifier points to, from a file
// at fromRelPath, or ("", false) if no known file matches.
func (r *Resolver) Resolve(fromRelPath, specifier string) (string, bool) {
	if !IsRelative(specifier) {
		return "", false
	}
	dir := path.Dir(fromRelPath)
	joined := path.Clean(path.Join(dir, specifier))

	if r.known[joined] {
		return joined, true
	}
	for _, ext := range r.exts {
		candidate := joined + "." + ext
		if r.known[candidate] {
			return candidate, true
		}
	}
	for _, ext := range r.exts {
		candidate := path.Join(joined, "index."+ext)
		if r.known[candidate] {
			return candidate, true
		}
	}
	return "", false
}
