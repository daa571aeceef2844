package lang

import (
	"path/filepath"
	"strings"
	"sync"
)

// Router maps a file extension to the adapter responsible for it. It is
// process-wide and constructs adapters lazily, once, the first time any of
// their extensions is looked up — mirroring the teacher's chunker.Registry,
// generalized from "extension -> tree-sitter query" to "extension ->
// Adapter".
type Router struct {
	mu       sync.Mutex
	factory  map[string]func() Adapter // ext (no dot) -> constructor
	built    map[string]Adapter        // ext -> built adapter
}

// NewRouter creates a router with no registered extensions.
func NewRouter() *Router {
	return &Router{
		factory: make(map[string]func() Adapter),
		built:   make(map[string]Adapter),
	}
}

// Register associates one or more extensions (without the leading dot) with
// a lazily-constructed adapter. Multiple extensions may share a factory
// (e.g. "js"/"jsx"/"mjs" all resolve to the same curly-brace+JSX adapter);
// the factory runs at most once, the first time any of them is resolved.
func (r *Router) Register(factory func() Adapter, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Resolve calls the factory with r.mu held, so the memo below needs no
	// lock of its own.
	var shared Adapter
	once := func() Adapter {
		if shared == nil {
			shared = factory()
		}
		return shared
	}
	for _, ext := range exts {
		r.factory[ext] = once
	}
}

// Extensions returns the set of all registered extensions.
func (r *Router) Extensions() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.factory))
	for ext := range r.factory {
		out[ext] = true
	}
	return out
}

// Resolve returns the adapter for path's extension, or (nil, false) if the
// extension is unregistered — callers must fall back to the "unknown"
// language tag with empty extraction arrays in that case.
func (r *Router) Resolve(path string) (Adapter, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.built[ext]; ok {
		return a, true
	}
	factory, ok := r.factory[ext]
	if !ok {
		return nil, false
	}
	a := factory()
	// The same adapter instance is shared by every extension it was
	// registered under, so a second lookup for a sibling extension (e.g.
	// "jsx" after "js" built the shared curly-brace adapter) is cached too.
	r.built[ext] = a
	return a, true
}
