// Package semcache implements the Semantic Cache: reuse-or-rebuild policy
// over the persisted DocCache, and top-k cosine similarity search. Search
// is a pure-Go cosine scan over the loaded cache. Open builds an ephemeral
// in-memory SQLite + sqlite-vec database from the cache once, and the
// returned Engine serves repeated queries (the resident server builds one
// per Init/Reload). PROJECT_INDEX.vectors.jsonl remains the sole persisted
// source of truth, and sqlite-vec is used the way the teacher uses it (a
// vec0 virtual table queried with MATCH), just scoped to a throwaway
// :memory: connection instead of a durable file.
package semcache

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"projectindex/internal/errs"
	"projectindex/internal/model"
)

func init() {
	sqlite_vec.Auto()
}

// Match is one semantic search hit.
type Match struct {
	Entry    model.DocEntry
	Distance float64
}

// NeedsRebuild reports whether cache must be fully rebuilt for the given
// model and entry texts, per the spec's reuse policy: reuse iff
// (model_id, entry_count, entry_texts) all match, else rebuild.
func NeedsRebuild(cache *model.DocCache, modelID string, texts []string) bool {
	if cache == nil {
		return true
	}
	if cache.ModelID != modelID {
		return true
	}
	if len(cache.Entries) != len(texts) {
		return true
	}
	for i, entry := range cache.Entries {
		if entry.Text != texts[i] {
			return true
		}
	}
	return false
}

// Engine wraps an ephemeral in-memory sqlite-vec database for one search.
type Engine struct {
	db  *sql.DB
	dim int
}

// Open loads cache into a fresh :memory: database sized to cache's vector
// dimension. Callers must Close the returned Engine after use.
func Open(cache *model.DocCache) (*Engine, error) {
	if cache == nil || len(cache.Entries) == 0 {
		return nil, errs.New(errs.IndexMissing, "semantic cache is empty")
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errs.Wrap(errs.IOError, "open in-memory search database", err)
	}

	dim := cache.Dim
	if dim == 0 && len(cache.Vectors) > 0 {
		dim = len(cache.Vectors[0])
	}

	schema := fmt.Sprintf(`
		CREATE VIRTUAL TABLE vec_docs USING vec0(embedding float[%d]);
		CREATE TABLE doc_meta (rowid INTEGER PRIMARY KEY, id TEXT, file TEXT, line INTEGER, text TEXT);
	`, dim)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.IOError, "create in-memory search schema", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, errs.Wrap(errs.IOError, "begin in-memory search load", err)
	}
	vecStmt, err := tx.Prepare("INSERT INTO vec_docs(rowid, embedding) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errs.Wrap(errs.IOError, "prepare vector insert", err)
	}
	metaStmt, err := tx.Prepare("INSERT INTO doc_meta(rowid, id, file, line, text) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, errs.Wrap(errs.IOError, "prepare metadata insert", err)
	}

	for i, entry := range cache.Entries {
		if i >= len(cache.Vectors) {
			break
		}
		blob, err := sqlite_vec.SerializeFloat32(cache.Vectors[i])
		if err != nil {
			tx.Rollback()
			db.Close()
			return nil, errs.Wrap(errs.IOError, "serialize cached vector", err)
		}
		if _, err := vecStmt.Exec(i, blob); err != nil {
			tx.Rollback()
			db.Close()
			return nil, errs.Wrap(errs.IOError, "load cached vector", err)
		}
		if _, err := metaStmt.Exec(i, entry.ID, entry.File, entry.Line, entry.Text); err != nil {
			tx.Rollback()
			db.Close()
			return nil, errs.Wrap(errs.IOError, "load cached metadata", err)
		}
	}
	vecStmt.Close()
	metaStmt.Close()
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.IOError, "commit in-memory search load", err)
	}

	return &Engine{db: db, dim: dim}, nil
}

// Close releases the ephemeral database.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Search returns the top-k nearest entries to query by cosine distance
// (sqlite-vec's vec0 tables compute L2 distance over normalized vectors,
// which is monotonic with cosine distance since every stored vector is
// unit-normalized by internal/embed).
func (e *Engine) Search(query []float32, k int) ([]Match, error) {
	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, errs.Wrap(errs.EmbeddingError, "serialize query vector", err)
	}

	rows, err := e.db.Query(`
		SELECT v.rowid, v.distance, m.id, m.file, m.line, m.text
		FROM vec_docs v
		JOIN doc_meta m ON m.rowid = v.rowid
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, blob, k)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, "semantic search query", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var rowid int
		var m Match
		if err := rows.Scan(&rowid, &m.Distance, &m.Entry.ID, &m.Entry.File, &m.Entry.Line, &m.Entry.Text); err != nil {
			return nil, errs.Wrap(errs.IOError, "scan semantic search row", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
