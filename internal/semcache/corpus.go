package semcache

import (
	"fmt"
	"sort"
	"strings"

	"projectindex/internal/model"
)

// BuildCorpus flattens every symbol in idx into one DocEntry per symbol,
// in a deterministic (path, then declaration order) sequence so repeated
// calls over an unchanged index produce identical entry_texts — required
// for the reuse-vs-rebuild comparison to be stable across runs.
func BuildCorpus(idx *model.ProjectIndex) []model.DocEntry {
	paths := make([]string, 0, len(idx.Files))
	for path := range idx.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var entries []model.DocEntry
	for _, path := range paths {
		file := idx.Files[path]
		entries = appendSymbolEntries(entries, path, file.Symbols, "")
	}
	return entries
}

func appendSymbolEntries(entries []model.DocEntry, path string, symbols []model.SymbolNode, parent string) []model.DocEntry {
	for _, sym := range symbols {
		qualified := sym.Name
		if parent != "" {
			qualified = parent + "." + sym.Name
		}
		entries = append(entries, model.DocEntry{
			ID:   path + ":" + qualified,
			File: path,
			Line: sym.Line,
			Text: symbolText(qualified, sym),
		})
		entries = appendSymbolEntries(entries, path, sym.Children, qualified)
	}
	return entries
}

// symbolText renders the text actually sent to the embedding model: kind,
// qualified name, signature, and docstring if present. Keeping this
// deterministic and free of volatile fields (timestamps, byte offsets) is
// what lets entry_texts-based cache reuse hold across re-indexes that
// don't change symbol content.
func symbolText(qualified string, sym model.SymbolNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", sym.Kind, qualified)
	if sym.Signature != "" {
		b.WriteString(" ")
		b.WriteString(sym.Signature)
	}
	if sym.Docstring != "" {
		b.WriteString("\n")
		b.WriteString(sym.Docstring)
	}
	return b.String()
}
