// Package persist implements the on-disk persistence contract: atomic
// temp-file-then-rename writes of PROJECT_INDEX.json, and header-line +
// one-JSON-line-per-entry reads/writes of PROJECT_INDEX.vectors.jsonl.
package persist

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"projectindex/internal/errs"
	"projectindex/internal/model"
)

const (
	projectDir   = ".context/.project"
	indexFile    = "PROJECT_INDEX.json"
	vectorsFile  = "PROJECT_INDEX.vectors.jsonl"
	overviewFile = "OVERVIEW.md"
)

// IndexPath returns the absolute path to a project's PROJECT_INDEX.json.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, projectDir, indexFile)
}

// VectorsPath returns the absolute path to a project's vectors cache.
func VectorsPath(projectRoot string) string {
	return filepath.Join(projectRoot, projectDir, vectorsFile)
}

// OverviewPath returns the absolute path to a project's synthesized
// OVERVIEW.md (see internal/overview).
func OverviewPath(projectRoot string) string {
	return filepath.Join(projectRoot, projectDir, overviewFile)
}

// SaveOverview atomically writes markdown to OVERVIEW.md.
func SaveOverview(projectRoot string, markdown string) error {
	dir := filepath.Join(projectRoot, projectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.IOError, "create project directory", err)
	}
	return atomicWrite(filepath.Join(dir, overviewFile), []byte(markdown))
}

// LoadOverview reads a previously synthesized OVERVIEW.md, returning
// (empty, false, nil) if none exists yet.
func LoadOverview(projectRoot string) (string, bool, error) {
	data, err := os.ReadFile(OverviewPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errs.Wrap(errs.IOError, "read overview", err)
	}
	return string(data), true, nil
}

// LoadIndex reads PROJECT_INDEX.json, returning (nil, false, nil) if it
// does not exist yet (a fresh project has no index).
func LoadIndex(projectRoot string) (*model.ProjectIndex, bool, error) {
	path := IndexPath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(errs.IOError, "read project index", err)
	}
	var idx model.ProjectIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, false, errs.Wrap(errs.IOError, "parse project index", err)
	}
	return &idx, true, nil
}

// SaveIndex atomically writes idx to PROJECT_INDEX.json: it writes to a
// temp file in the same directory, then renames it into place, so a
// concurrent reader never observes a partially-written file.
func SaveIndex(projectRoot string, idx *model.ProjectIndex) error {
	dir := filepath.Join(projectRoot, projectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.IOError, "create project directory", err)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errs.Wrap(errs.IOError, "encode project index", err)
	}

	return atomicWrite(filepath.Join(dir, indexFile), data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errs.Wrap(errs.IOError, "create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.IOError, "write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.IOError, "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errs.Wrap(errs.IOError, "rename into place", err)
	}
	return nil
}

type docCacheHeader struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

type docCacheLine struct {
	ID   string    `json:"id"`
	File string    `json:"file"`
	Line int       `json:"line,omitempty"`
	Text string    `json:"text"`
	Vec  []float32 `json:"vec"`
}

// LoadDocCache reads the vectors JSONL cache, returning (nil, false, nil)
// if it does not exist.
func LoadDocCache(projectRoot string) (*model.DocCache, bool, error) {
	path := VectorsPath(projectRoot)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(errs.IOError, "open vectors cache", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, false, errs.New(errs.IOError, "empty vectors cache")
	}
	var header docCacheHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, false, errs.Wrap(errs.IOError, "parse vectors cache header", err)
	}

	cache := &model.DocCache{ModelID: header.Model}
	for scanner.Scan() {
		var line docCacheLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return nil, false, errs.Wrap(errs.IOError, "parse vectors cache entry", err)
		}
		cache.Entries = append(cache.Entries, model.DocEntry{ID: line.ID, File: line.File, Line: line.Line, Text: line.Text})
		cache.Vectors = append(cache.Vectors, line.Vec)
		if cache.Dim == 0 && len(line.Vec) > 0 {
			cache.Dim = len(line.Vec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, errs.Wrap(errs.IOError, "scan vectors cache", err)
	}
	if header.Count != len(cache.Entries) {
		return nil, false, errs.New(errs.IOError, "vectors cache header count mismatch")
	}
	return cache, true, nil
}

// SaveDocCache atomically writes cache to the vectors JSONL file.
func SaveDocCache(projectRoot string, cache *model.DocCache) error {
	dir := filepath.Join(projectRoot, projectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.IOError, "create project directory", err)
	}

	var buf []byte
	header, err := json.Marshal(docCacheHeader{Model: cache.ModelID, Count: len(cache.Entries)})
	if err != nil {
		return errs.Wrap(errs.IOError, "encode vectors cache header", err)
	}
	buf = append(buf, header...)
	buf = append(buf, '\n')

	for i, entry := range cache.Entries {
		var vec []float32
		if i < len(cache.Vectors) {
			vec = cache.Vectors[i]
		}
		line, err := json.Marshal(docCacheLine{ID: entry.ID, File: entry.File, Line: entry.Line, Text: entry.Text, Vec: vec})
		if err != nil {
			return errs.Wrap(errs.IOError, "encode vectors cache entry", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	return atomicWrite(filepath.Join(dir, vectorsFile), buf)
}
