package cmd

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"projectindex/internal/config"
	"projectindex/internal/embed"
	"projectindex/internal/errs"
	"projectindex/internal/lang"
	"projectindex/internal/logging"
	"projectindex/internal/model"
	"projectindex/internal/persist"
)

// resolveProjectRoot returns the effective project root: --project-root
// if set, otherwise the current working directory.
func resolveProjectRoot() (string, error) {
	if flagProjectRoot != "" {
		return filepath.Abs(flagProjectRoot)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errs.Wrap(errs.IOError, "get working directory", err)
	}
	return wd, nil
}

// loadConfig resolves the project root and loads its layered config
// (defaults, config.yaml, PROJECT_INDEX_* env vars).
func loadConfig() (*config.Config, error) {
	root, err := resolveProjectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(root, flagConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ProjectRoot = root
	return cfg, nil
}

// newLogger builds the process logger from -v/-q.
func newLogger() *slog.Logger {
	level := logging.LevelFromVerbosity(flagVerbose, flagQuiet)
	return logging.New(os.Stderr, level)
}

// requireIndex loads the persisted index, returning an IndexMissing error
// with guidance if the project hasn't been indexed yet.
func requireIndex(projectRoot string) (*model.ProjectIndex, error) {
	idx, ok, err := persist.LoadIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.IndexMissing, "no index found, run 'pindex index' first")
	}
	return idx, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// defaultRouter is shared by every subcommand that needs to parse files.
func defaultRouter() *lang.Router {
	return lang.DefaultRouter()
}

// newEmbedder returns the process-wide Embedding Provider for cfg's
// configured backend.
func newEmbedder(cfg *config.Config) *embed.Provider {
	return embed.Singleton(cfg.Embed.BaseURL, cfg.Embed.Model)
}

// resolveSymbolName matches a caller-given name against symbol_index: an
// exact qualified-name match wins outright, otherwise it looks for a
// unique entry whose final dot-separated segment equals name. Returns
// SymbolNotFound if nothing matches or more than one qualified name
// shares that bare segment.
func resolveSymbolName(idx *model.ProjectIndex, name string) (string, error) {
	if _, ok := idx.SymbolIndex[name]; ok {
		return name, nil
	}
	var matches []string
	for qualified := range idx.SymbolIndex {
		if bareName(qualified) == name {
			matches = append(matches, qualified)
		}
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.SymbolNotFound, "symbol not found: "+name)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", errs.New(errs.SymbolNotFound, "ambiguous symbol name "+name+", matches: "+strings.Join(matches, ", "))
	}
}

func bareName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
