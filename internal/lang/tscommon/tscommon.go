// Package tscommon holds tree-sitter plumbing shared by every Parser
// Adapter family: parsing bytes into a tree, converting tree-sitter's
// 0-based point positions into the spec's 1-based-line/0-based-column
// convention, and walking a subtree to collect outgoing call names.
package tscommon

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse parses src with the given grammar and returns the syntax tree. The
// caller owns the returned tree and must call tree.Close() when done.
func Parse(src []byte, language *sitter.Language) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(language)
	return p.ParseCtx(context.Background(), nil, src)
}

// Line returns the 1-based line of a node's start position.
func Line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

// EndLine returns the 1-based line of a node's end position.
func EndLine(n *sitter.Node) int { return int(n.EndPoint().Row) + 1 }

// Column returns the 0-based column of a node's start position.
func Column(n *sitter.Node) int { return int(n.StartPoint().Column) }

// EndColumn returns the 0-based column of a node's end position.
func EndColumn(n *sitter.Node) int { return int(n.EndPoint().Column) }

// Text returns the source text spanned by n.
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// SortedUniqueCalls dedupes and sorts a list of extracted call names, per
// the SymbolNode.Calls invariant (sorted ascending, no duplicates).
func SortedUniqueCalls(calls []string) []string {
	if len(calls) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(calls))
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Walk calls visit for n and every descendant, depth-first, pre-order.
// visit returns false to skip descending into that node's children.
func Walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		Walk(n.Child(i), visit)
	}
}

// ChildByField returns the node's child with the given field name, or nil.
func ChildByField(n *sitter.Node, field string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(field)
}

// NamedChildren returns all named children of n.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// PrecedingComment returns the text of the nearest preceding sibling of n
// that is one of the given comment node type names and is directly adjacent
// (no non-comment sibling between it and n), or "" if none.
func PrecedingComment(n *sitter.Node, src []byte, commentTypes map[string]bool) string {
	if n == nil || n.Parent() == nil {
		return ""
	}
	parent := n.Parent()
	var prevIdx = -1
	count := int(parent.ChildCount())
	for i := 0; i < count; i++ {
		if parent.Child(i) == n {
			prevIdx = i - 1
			break
		}
	}
	if prevIdx < 0 {
		return ""
	}
	sib := parent.Child(prevIdx)
	if sib == nil || !commentTypes[sib.Type()] {
		return ""
	}
	return Text(sib, src)
}
