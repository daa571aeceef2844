// Package shellfamily implements the spec's line-oriented family Parser
// Adapter for shell scripts. Function boundaries come from the tree-sitter
// bash grammar; everything else (call sites, parameter references, source
// imports) is recovered with line-oriented heuristics, since shell has no
// static notion of "call expression" the way the other families do.
package shellfamily

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"

	"projectindex/internal/lang/tscommon"
	"projectindex/internal/model"
)

// Adapter extracts function definitions, sourced files, exported names,
// and approximate call edges from shell source.
type Adapter struct{}

// New creates a shell family adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return model.LangShell }

var commentTypes = map[string]bool{"comment": true}

var (
	sourceRe    = regexp.MustCompile(`^\s*(?:source|\.)\s+([^\s|&;]+)`)
	exportRe    = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)=`)
	paramRe     = regexp.MustCompile(`\$([0-9]+)`)
	callSplitRe = regexp.MustCompile(`[;|&]|\$\(|` + "`")
)

func (a *Adapter) Parse(path string, src []byte) (model.ParseResult, error) {
	tree, err := tscommon.Parse(src, bash.GetLanguage())
	if err != nil {
		return model.ParseResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return model.ParseResult{}, nil
	}

	var res model.ParseResult
	funcNames := map[string]bool{}

	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		if n.Type() == "function_definition" {
			name := functionName(n, src)
			funcNames[name] = true
		}
	}

	lines := strings.Split(string(src), "\n")
	for lineNo, line := range lines {
		if m := sourceRe.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, model.ImportEdge{Module: strings.Trim(m[1], `"'`)})
		}
		if m := exportRe.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, model.ExportDecl{Name: m[1], Kind: "variable", Line: lineNo + 1})
		}
	}

	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		if n.Type() != "function_definition" {
			continue
		}
		sym := extractFunction(n, src, lines, funcNames)
		res.Symbols = append(res.Symbols, sym)
		res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "function", Line: sym.Line, Signature: sym.Signature})
	}

	return res, nil
}

func functionName(n *sitter.Node, src []byte) string {
	if name := tscommon.ChildByField(n, "name"); name != nil {
		return tscommon.Text(name, src)
	}
	// "function name { ... }" form without a grammar-exposed name field:
	// fall back to the first word-like child.
	for _, c := range tscommon.NamedChildren(n) {
		if c.Type() == "word" || c.Type() == "variable_name" {
			return tscommon.Text(c, src)
		}
	}
	return ""
}

func extractFunction(n *sitter.Node, src []byte, lines []string, funcNames map[string]bool) model.SymbolNode {
	name := functionName(n, src)
	startLine := tscommon.Line(n)
	endLine := tscommon.EndLine(n)

	sym := model.SymbolNode{
		Name: name, Kind: "function",
		Line: startLine, Column: tscommon.Column(n),
		EndLine: endLine, EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}

	params := approximateParams(lines, startLine, endLine)
	if len(params) > 0 {
		sym.Signature = name + "(" + strings.Join(params, ", ") + ")"
	} else {
		sym.Signature = name + "()"
	}

	sym.Calls = tscommon.SortedUniqueCalls(approximateCalls(lines, startLine, endLine, funcNames, name))
	return sym
}

// approximateParams scans a function body's lines for the highest $N
// positional-parameter reference used, and names them arg1..argN.
func approximateParams(lines []string, startLine, endLine int) []string {
	maxN := 0
	for i := startLine; i < endLine && i <= len(lines); i++ {
		for _, m := range paramRe.FindAllStringSubmatch(lines[i-1], -1) {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > maxN {
				maxN = n
			}
		}
	}
	var params []string
	for i := 1; i <= maxN; i++ {
		params = append(params, "arg"+strconv.Itoa(i))
	}
	return params
}

// approximateCalls scans a function body's lines for command-position
// words that match a known function name in this file. A word is treated
// as being in command position if it starts a line, or follows one of
// ";", "|", "&", "$(", or a backtick.
func approximateCalls(lines []string, startLine, endLine int, funcNames map[string]bool, self string) []string {
	var calls []string
	for i := startLine; i < endLine && i <= len(lines); i++ {
		line := lines[i-1]
		for _, word := range commandPositionWords(line) {
			if word != self && funcNames[word] {
				calls = append(calls, word)
			}
		}
	}
	return calls
}

func commandPositionWords(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	segments := callSplitRe.Split(line, -1)
	var words []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			continue
		}
		word := fields[0]
		if isIdentifier(word) {
			words = append(words, word)
		}
	}
	return dedupe(words)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
