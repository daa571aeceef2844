// Package lang defines the Parser Adapter contract and the extension-based
// router that dispatches a file to the right one. Adapters are pure with
// respect to their inputs and never panic across the adapter boundary — a
// parser failure surfaces as an empty ParseResult plus a returned warning,
// never as an escaped panic or a build-aborting error.
package lang

import "projectindex/internal/model"

// Adapter turns file bytes + a repo-relative path into a normalized
// ParseResult. Implementations must be safe for concurrent use — the index
// builder may invoke the same adapter instance from multiple goroutines.
type Adapter interface {
	// Language returns the stable language tag this adapter produces.
	Language() string
	// Parse extracts imports, exports, symbols, and an outline from src.
	// path is used only for diagnostics and any path-shaped heuristics
	// (e.g. distinguishing .ts from .tsx); it is not read from disk here.
	Parse(path string, src []byte) (model.ParseResult, error)
}
