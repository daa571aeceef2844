// Package query implements the Query Engine: pure, read-only functions
// over a loaded ProjectIndex. Nothing here touches disk or the network;
// callers (the CLI, the resident server) own loading and caching.
package query

import (
	"path"
	"sort"
	"strings"

	"projectindex/internal/errs"
	"projectindex/internal/model"
)

// Hit is one search result: a qualified symbol name and its location.
type Hit struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Search filters symbol_index by substring (case-insensitive) or exact
// match, returning hits sorted by name for deterministic output.
func Search(idx *model.ProjectIndex, term string, exact bool) []Hit {
	needle := strings.ToLower(term)
	var hits []Hit
	for name, loc := range idx.SymbolIndex {
		if exact {
			if name == term {
				hits = append(hits, Hit{Name: name, Location: loc})
			}
			continue
		}
		if strings.Contains(strings.ToLower(name), needle) {
			hits = append(hits, Hit{Name: name, Location: loc})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Name < hits[j].Name })
	return hits
}

// normalizePath strips a leading "./" so callers can pass either form.
func normalizePath(p string) string {
	return strings.TrimPrefix(p, "./")
}

// Dependencies returns the forward or reverse edges for p.
func Dependencies(idx *model.ProjectIndex, p string, reverse bool) ([]string, error) {
	p = normalizePath(p)
	edges, ok := idx.DependencyGraph[p]
	if !ok {
		return nil, errs.New(errs.PathNotInGraph, "path not in dependency graph: "+p)
	}
	if reverse {
		return edges.ImportedBy, nil
	}
	return edges.Imports, nil
}

// Orphans returns every file with no imports and no importers.
func Orphans(idx *model.ProjectIndex) []string {
	var out []string
	for p, edges := range idx.DependencyGraph {
		if len(edges.Imports) == 0 && len(edges.ImportedBy) == 0 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Severity buckets impact by BFS depth from the changed target.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ImpactItem is one file affected by a change, at its closest depth.
type ImpactItem struct {
	Path     string   `json:"path"`
	Depth    int      `json:"depth"`
	Severity Severity `json:"severity"`
}

// Impact BFS-walks imported_by from target, bucketing by depth: depth 1
// is high severity, depth 2 is medium, deeper is low. A file reachable at
// multiple depths keeps its highest-severity (lowest-depth) bucket. Any
// test-shaped file (path containing "/test/", ".test.", or ".spec.")
// whose base name, or base name up to its first dot, matches target's (so
// target.test.go matches target.go), or which itself appears in an impact
// bucket, is returned separately.
func Impact(idx *model.ProjectIndex, target string) ([]ImpactItem, []string, error) {
	target = normalizePath(target)
	if _, ok := idx.DependencyGraph[target]; !ok {
		return nil, nil, errs.New(errs.PathNotInGraph, "path not in dependency graph: "+target)
	}

	depth := map[string]int{}
	type queued struct {
		path string
		d    int
	}
	queue := []queued{{target, 0}}
	visited := map[string]bool{target: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		edges := idx.DependencyGraph[cur.path]
		for _, importer := range edges.ImportedBy {
			if visited[importer] {
				continue
			}
			visited[importer] = true
			d := cur.d + 1
			depth[importer] = d
			queue = append(queue, queued{importer, d})
		}
	}

	var items []ImpactItem
	for p, d := range depth {
		items = append(items, ImpactItem{Path: p, Depth: d, Severity: severityForDepth(d)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Depth != items[j].Depth {
			return items[i].Depth < items[j].Depth
		}
		return items[i].Path < items[j].Path
	})

	inBucket := make(map[string]bool, len(items))
	for _, it := range items {
		inBucket[it.Path] = true
	}

	targetBase := path.Base(target)
	targetStem := strings.SplitN(targetBase, ".", 2)[0]
	var tests []string
	for p := range idx.DependencyGraph {
		if !isTestShaped(p) {
			continue
		}
		base := path.Base(p)
		if inBucket[p] || base == targetBase || strings.SplitN(base, ".", 2)[0] == targetStem {
			tests = append(tests, p)
		}
	}
	sort.Strings(tests)

	return items, tests, nil
}

func severityForDepth(d int) Severity {
	switch {
	case d <= 1:
		return SeverityHigh
	case d == 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func isTestShaped(p string) bool {
	return strings.Contains(p, "/test/") || strings.Contains(p, ".test.") || strings.Contains(p, ".spec.")
}

// DeadCode returns the symbol_index names never referenced in any
// symbol's calls list. Every symbol_index entry is a candidate whatever its
// kind: types, fields, constants and variables are reported as well as
// functions and methods. includeUnderscore controls whether names
// starting with "_" (conventionally private/unused markers in several
// languages) are included.
func DeadCode(idx *model.ProjectIndex, includeUnderscore bool) []string {
	called := make(map[string]bool)
	for _, file := range idx.Files {
		collectCalls(file.Symbols, called)
	}

	var dead []string
	for qualified := range idx.SymbolIndex {
		simple := qualified
		if i := strings.LastIndex(qualified, "."); i >= 0 {
			simple = qualified[i+1:]
		}
		if !includeUnderscore && strings.HasPrefix(simple, "_") {
			continue
		}
		if called[simple] || called[qualified] {
			continue
		}
		dead = append(dead, qualified)
	}
	sort.Strings(dead)
	return dead
}

func collectCalls(symbols []model.SymbolNode, called map[string]bool) {
	for _, sym := range symbols {
		for _, call := range sym.Calls {
			called[call] = true
			if i := strings.LastIndex(call, "."); i >= 0 {
				called[call[i+1:]] = true
			}
		}
		collectCalls(sym.Children, called)
	}
}

// Suggestion is one ranked symbol_index entry for a context string.
type Suggestion struct {
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
}

// categoryKeywords is the fixed dictionary of category -> keyword boosts
// applied in Suggest. A category adds its boost once to a symbol when both
// the context string and the symbol's name contain one of its keywords or
// the category name itself.
var categoryKeywords = map[string][]string{
	"test":   {"test", "spec", "mock", "fixture"},
	"auth":   {"auth", "login", "token", "session", "permission"},
	"db":     {"database", "query", "sql", "store", "repository"},
	"http":   {"handler", "route", "endpoint", "request", "response"},
	"config": {"config", "settings", "option", "env"},
}

// Suggest ranks symbol_index entries against a context string: +100 for
// substring containment, +50 per overlapping component word (the name
// split on "_", "-", and whitespace), +25 per category that both
// the context and the symbol's name hit (see categoryKeywords). Returns the top 3 as
// "primary" and the next 5 as "related"; confidence is min(score/100, 1).
func Suggest(idx *model.ProjectIndex, context string) (primary, related []Suggestion) {
	lowerCtx := strings.ToLower(context)
	ctxWords := splitWords(lowerCtx)

	var ranked []Suggestion
	for name, loc := range idx.SymbolIndex {
		score := 0
		lowerName := strings.ToLower(name)

		if strings.Contains(lowerCtx, lowerName) || strings.Contains(lowerName, lowerCtx) {
			score += 100
		}

		nameWords := splitWords(lowerName)
		for _, nw := range nameWords {
			for _, cw := range ctxWords {
				if nw == cw && nw != "" {
					score += 50
					break
				}
			}
		}

		for category, keywords := range categoryKeywords {
			ctxHasCategory := containsAny(lowerCtx, keywords) || containsAny(lowerCtx, []string{category})
			nameHasCategory := containsAny(lowerName, keywords) || containsAny(lowerName, []string{category})
			if ctxHasCategory && nameHasCategory {
				score += 25
			}
		}

		if score == 0 {
			continue
		}
		confidence := float64(score) / 100
		if confidence > 1 {
			confidence = 1
		}
		ranked = append(ranked, Suggestion{Name: name, Location: loc, Score: score, Confidence: confidence})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > 3 {
		primary = ranked[:3]
	} else {
		primary = ranked
	}
	if len(ranked) > 3 {
		rest := ranked[3:]
		if len(rest) > 5 {
			rest = rest[:5]
		}
		related = rest
	}
	return primary, related
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '\t' || r == '\n'
	})
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
