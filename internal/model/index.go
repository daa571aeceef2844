package model

import "time"

// SchemaVersion is the current ProjectIndex schema version.
const SchemaVersion = "1.0.0"

// ProjectIndex is the root persisted structure.
type ProjectIndex struct {
	SchemaVersion    string                    `json:"schemaVersion"`
	ProjectRoot      string                    `json:"project_root"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
	Files            map[string]FileRecord     `json:"files"`
	SymbolIndex      map[string]string         `json:"symbol_index"`
	DependencyGraph  map[string]DependencyEdges `json:"dependency_graph"`
}

// DependencyEdges holds the forward and reverse import edges for one file.
type DependencyEdges struct {
	Imports    []string `json:"imports"`
	ImportedBy []string `json:"imported_by"`
}

// NewProjectIndex creates an empty index, preserving createdAt if given
// (pass the zero time to mint a fresh one).
func NewProjectIndex(projectRoot string, createdAt time.Time) *ProjectIndex {
	if createdAt.IsZero() {
		createdAt = nowFunc()
	}
	return &ProjectIndex{
		SchemaVersion:   SchemaVersion,
		ProjectRoot:     projectRoot,
		CreatedAt:       createdAt,
		UpdatedAt:       nowFunc(),
		Files:           make(map[string]FileRecord),
		SymbolIndex:     make(map[string]string),
		DependencyGraph: make(map[string]DependencyEdges),
	}
}

// nowFunc is overridable in tests that need deterministic timestamps.
var nowFunc = time.Now
