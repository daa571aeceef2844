// Package model holds the data types shared by every subsystem: the
// per-file extraction record, the project-wide index, and the semantic
// document cache. Values here are immutable snapshots — a FileRecord is
// replaced wholesale on content change, never mutated in place.
package model

import "time"

// Language tags are the stable identifiers used in FileRecord.Language.
const (
	LangTypeScript = "typescript"
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangGo         = "go"
	LangRust       = "rust"
	LangShell      = "shell"
	LangUnknown    = "unknown"
)

// FileRecord is one indexed source file.
type FileRecord struct {
	Path           string          `json:"path"`
	Language       string          `json:"language"`
	SizeBytes      int64           `json:"size_bytes"`
	ContentHash    string          `json:"content_hash"`
	LastIndexedAt  time.Time       `json:"last_indexed_at"`
	Imports        []ImportEdge    `json:"imports"`
	Exports        []ExportDecl    `json:"exports"`
	Symbols        []SymbolNode    `json:"symbols"`
	Outline        []OutlineEntry  `json:"outline"`
	UIComponents   []ComponentDecl `json:"ui_components,omitempty"`
	APIEndpoints   []EndpointDecl  `json:"api_endpoints,omitempty"`
}

// ImportEdge is one import site within a file.
type ImportEdge struct {
	Module         string   `json:"module"`
	Names          []string `json:"names"`
	DefaultImport  bool     `json:"default_import"`
	Alias          string   `json:"alias,omitempty"`
}

// ExportDecl is one exported entity.
type ExportDecl struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Signature string `json:"signature,omitempty"`
}

// SymbolNode is a declared code entity, possibly with nested children.
type SymbolNode struct {
	Name         string       `json:"name"`
	Kind         string       `json:"kind"`
	Line         int          `json:"line"`
	Column       int          `json:"column"`
	EndLine      int          `json:"end_line"`
	EndColumn    int          `json:"end_column"`
	Signature    string       `json:"signature,omitempty"`
	Docstring    string       `json:"docstring,omitempty"`
	Parent       string       `json:"parent,omitempty"`
	Children     []SymbolNode `json:"children,omitempty"`
	Calls        []string     `json:"calls,omitempty"`
}

// OutlineEntry is a flat structural marker used for display.
type OutlineEntry struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Line  int    `json:"line"`
}

// ComponentDecl describes a detected UI component (curly-brace+JSX family only).
type ComponentDecl struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"` // functional | class | forward_ref | memo | hoc
	Line    int      `json:"line"`
	Hooks   []string `json:"hooks,omitempty"`
	Wrapped string   `json:"wrapped,omitempty"` // inner component name for HOC/forwardRef/memo
}

// EndpointDecl describes a detected HTTP endpoint.
type EndpointDecl struct {
	Method     string   `json:"method"`
	Path       string   `json:"path"`
	Handler    string   `json:"handler"`
	Line       int      `json:"line"`
	Framework  string   `json:"framework"`
	Middleware []string `json:"middleware,omitempty"`
}

// ParseResult is what a Parser Adapter produces from file bytes + path.
type ParseResult struct {
	Imports      []ImportEdge
	Exports      []ExportDecl
	Symbols      []SymbolNode
	Outline      []OutlineEntry
	UIComponents []ComponentDecl
	APIEndpoints []EndpointDecl
}
