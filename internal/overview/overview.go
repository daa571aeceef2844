// Package overview supplements the core index with an LLM-synthesized
// architectural summary. It is pure enrichment: nothing in the index
// builder, query engine, watcher, or resident server's structural paths
// depends on it. A missing or unreachable chat backend makes Synthesize
// return an EmbeddingError to its caller (the overview command or the
// server's POST /overview); no build or structural query calls it, per
// spec.md §7's policy that semantic failures never affect structural
// queries.
package overview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"projectindex/internal/model"
)

const synthesisPrompt = `You are a senior software architect analyzing a codebase. Based ONLY on the file outlines and exported symbol names provided below, write a concise architectural overview in Markdown.

Rules:
- ONLY describe what you can directly observe in the provided outlines and symbol names
- Do NOT guess or infer features that aren't shown
- Do NOT describe external tools or services — describe THIS project

Cover:
1. What the project does (one paragraph)
2. Major packages/modules and how they connect (bullet points)
3. Key data flows through the system, if apparent from imports

Keep it under 300 words. Do not include code snippets.
`

// Generator is the subset of Chat (or a test double) that Synthesize
// needs.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Synthesize renders idx's file outlines and exported symbol names into a
// project-structure digest, sends it to chat for a one-shot architectural
// summary, and returns the resulting Markdown. It never reads raw file
// content or embeddings — only the structural extraction already present
// in idx.
func Synthesize(ctx context.Context, idx *model.ProjectIndex, chat Generator) (string, error) {
	if len(idx.Files) == 0 {
		return "", fmt.Errorf("no files indexed")
	}

	digest := renderDigest(idx)
	messages := []Message{{Role: "user", Content: synthesisPrompt + "\n## Project Structure\n\n" + digest}}
	return chat.Generate(ctx, messages)
}

// renderDigest is exported implicitly through Synthesize's prompt but
// also useful standalone (e.g. for a --dry-run digest without an LLM
// call), so it stays a free function rather than inlined.
func renderDigest(idx *model.ProjectIndex) string {
	paths := make([]string, 0, len(idx.Files))
	for p := range idx.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		file := idx.Files[p]
		fmt.Fprintf(&b, "### %s  (%s)\n", p, file.Language)
		for _, o := range file.Outline {
			fmt.Fprintf(&b, "  %s%s\n", strings.Repeat("  ", o.Level), o.Title)
		}
		for _, exp := range file.Exports {
			fmt.Fprintf(&b, "  - export [%s] %s\n", exp.Kind, exp.Name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
