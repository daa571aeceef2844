// Package callgraph derives outgoing/incoming call adjacency from a
// ProjectIndex's per-symbol Calls lists and answers call-chain queries
// over that derived graph.
package callgraph

import (
	"sort"

	"projectindex/internal/model"
)

// Graph holds the derived outgoing/incoming call maps, keyed by the
// symbol_index's qualified symbol names.
type Graph struct {
	Outgoing map[string][]string
	Incoming map[string][]string
}

// Build derives a Graph from idx's symbol tree and symbol_index. Every
// call name becomes an edge target in its own right, resolved or not —
// calls to stdlib/external functions are the common case and still need
// an edge per spec.md §4.7. When a bare call name also matches one or
// more qualified symbol names (by final dot-segment), those qualified
// names fan out as additional edges alongside the raw name.
func Build(idx *model.ProjectIndex) *Graph {
	g := &Graph{Outgoing: map[string][]string{}, Incoming: map[string][]string{}}

	bareToQualified := map[string][]string{}
	qualifiedNames := make([]string, 0, len(idx.SymbolIndex))
	for qualified := range idx.SymbolIndex {
		qualifiedNames = append(qualifiedNames, qualified)
		bareToQualified[bareName(qualified)] = append(bareToQualified[bareName(qualified)], qualified)
	}
	sort.Strings(qualifiedNames)
	for bare := range bareToQualified {
		sort.Strings(bareToQualified[bare])
	}

	var walk func(prefix string, nodes []model.SymbolNode)
	walk = func(prefix string, nodes []model.SymbolNode) {
		for _, sym := range nodes {
			qualified := sym.Name
			if prefix != "" {
				qualified = prefix + "." + sym.Name
			}
			for _, call := range sym.Calls {
				targets := resolveCallTargets(call, idx.SymbolIndex, bareToQualified)
				for _, target := range targets {
					g.Outgoing[qualified] = appendUnique(g.Outgoing[qualified], target)
					g.Incoming[target] = appendUnique(g.Incoming[target], qualified)
				}
			}
			if len(sym.Children) > 0 {
				walk(qualified, sym.Children)
			}
		}
	}
	for _, rec := range idx.Files {
		walk("", rec.Symbols)
	}

	for k := range g.Outgoing {
		sort.Strings(g.Outgoing[k])
	}
	for k := range g.Incoming {
		sort.Strings(g.Incoming[k])
	}
	return g
}

func bareName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}

func resolveCallTargets(call string, symbolIndex map[string]string, bareToQualified map[string][]string) []string {
	if _, ok := symbolIndex[call]; ok {
		return []string{call}
	}
	targets := []string{call}
	for _, qualified := range bareToQualified[call] {
		if qualified != call {
			targets = append(targets, qualified)
		}
	}
	return targets
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Chain performs a breadth-first search from start to target over the
// Outgoing map, up to maxDepth hops, ties broken by insertion order (the
// order edges are listed for each node, which Build leaves sorted). It
// returns the first path found, start through target inclusive, or nil
// if target is unreachable within maxDepth hops.
func (g *Graph) Chain(start, target string, maxDepth int) []string {
	if start == target {
		return []string{start}
	}
	visited := map[string]bool{start: true}
	parent := map[string]string{}
	queue := []struct {
		name  string
		depth int
	}{{start, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range g.Outgoing[cur.name] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur.name
			if next == target {
				return reconstructPath(parent, start, target)
			}
			queue = append(queue, struct {
				name  string
				depth int
			}{next, cur.depth + 1})
		}
	}
	return nil
}

func reconstructPath(parent map[string]string, start, target string) []string {
	path := []string{target}
	for cur := target; cur != start; {
		p := parent[cur]
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
