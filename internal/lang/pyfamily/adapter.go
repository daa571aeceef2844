// Package pyfamily implements the spec's indentation family Parser Adapter
// for Python using the tree-sitter Python grammar.
package pyfamily

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"projectindex/internal/lang/tscommon"
	"projectindex/internal/model"
)

// Adapter extracts imports, exports (module-level defs/classes/assignments,
// or __all__ when present), symbols, and calls from Python source.
type Adapter struct{}

// New creates a Python family adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return model.LangPython }

func (a *Adapter) Parse(path string, src []byte) (model.ParseResult, error) {
	tree, err := tscommon.Parse(src, python.GetLanguage())
	if err != nil {
		return model.ParseResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return model.ParseResult{}, nil
	}

	var res model.ParseResult
	var all []string
	hasAll := false

	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "import_statement":
			res.Imports = append(res.Imports, extractImport(n, src)...)
		case "import_from_statement":
			res.Imports = append(res.Imports, extractImportFrom(n, src)...)
		case "function_definition":
			sym := extractFunctionDef(n, src, "")
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "class_definition":
			sym := extractClassDef(n, src)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "expression_statement":
			if names, values, isDunderAll := extractAssignment(n, src); isDunderAll {
				all = values
				hasAll = true
			} else {
				for _, name := range names {
					res.Symbols = append(res.Symbols, model.SymbolNode{
						Name: name, Kind: "variable",
						Line: tscommon.Line(n), Column: tscommon.Column(n),
						EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
					})
				}
			}
		}
	}

	if hasAll {
		for _, name := range all {
			res.Exports = append(res.Exports, model.ExportDecl{Name: name, Kind: declKindFor(res, name)})
		}
	} else {
		for _, sym := range res.Symbols {
			if !strings.HasPrefix(sym.Name, "_") {
				res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: sym.Kind, Line: sym.Line, Signature: sym.Signature})
			}
		}
	}

	return res, nil
}

func declKindFor(res model.ParseResult, name string) string {
	for _, s := range res.Symbols {
		if s.Name == name {
			return s.Kind
		}
	}
	return "variable"
}

func extractImport(n *sitter.Node, src []byte) []model.ImportEdge {
	var edges []model.ImportEdge
	for _, c := range tscommon.NamedChildren(n) {
		switch c.Type() {
		case "dotted_name":
			edges = append(edges, model.ImportEdge{Module: tscommon.Text(c, src)})
		case "aliased_import":
			name := tscommon.ChildByField(c, "name")
			alias := tscommon.ChildByField(c, "alias")
			edges = append(edges, model.ImportEdge{Module: tscommon.Text(name, src), Alias: tscommon.Text(alias, src)})
		}
	}
	return edges
}

func extractImportFrom(n *sitter.Node, src []byte) []model.ImportEdge {
	moduleNode := tscommon.ChildByField(n, "module_name")
	if moduleNode == nil {
		return nil
	}
	module := tscommon.Text(moduleNode, src)
	edge := model.ImportEdge{Module: module}

	for _, c := range tscommon.NamedChildren(n) {
		switch c.Type() {
		case "wildcard_import":
			edge.Names = append(edge.Names, "*")
		case "dotted_name":
			if c == moduleNode {
				continue
			}
			edge.Names = append(edge.Names, tscommon.Text(c, src))
		case "aliased_import":
			name := tscommon.ChildByField(c, "name")
			alias := tscommon.ChildByField(c, "alias")
			edge.Names = append(edge.Names, tscommon.Text(name, src)+" as "+tscommon.Text(alias, src))
		}
	}
	return []model.ImportEdge{edge}
}

// extractAssignment reports the left-hand identifiers of a top-level bare
// assignment, or (nil, rhsStringList, true) when the target is __all__.
func extractAssignment(n *sitter.Node, src []byte) ([]string, []string, bool) {
	assign := findChild(n, "assignment")
	if assign == nil {
		return nil, nil, false
	}
	left := tscommon.ChildByField(assign, "left")
	right := tscommon.ChildByField(assign, "right")
	if left == nil {
		return nil, nil, false
	}

	if left.Type() == "identifier" && tscommon.Text(left, src) == "__all__" {
		var names []string
		if right != nil {
			for _, elt := range tscommon.NamedChildren(right) {
				if elt.Type() == "string" {
					names = append(names, stripQuotes(tscommon.Text(elt, src)))
				}
			}
		}
		return nil, names, true
	}

	var names []string
	switch left.Type() {
	case "identifier":
		names = append(names, tscommon.Text(left, src))
	case "pattern_list", "tuple_pattern":
		for _, id := range tscommon.NamedChildren(left) {
			if id.Type() == "identifier" {
				names = append(names, tscommon.Text(id, src))
			}
		}
	}
	return names, nil, false
}

func stripQuotes(s string) string {
	s = strings.Trim(s, "'\"")
	return s
}

func findChild(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range tscommon.NamedChildren(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

func extractFunctionDef(n *sitter.Node, src []byte, parent string) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	params := tscommon.ChildByField(n, "parameters")
	retType := tscommon.ChildByField(n, "return_type")
	sig := name + tscommon.Text(params, src)
	if retType != nil {
		sig += " -> " + tscommon.Text(retType, src)
	}

	sym := model.SymbolNode{
		Name: name, Kind: "function", Parent: parent,
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Signature: sig,
	}
	if parent != "" {
		sym.Kind = "method"
	}

	body := tscommon.ChildByField(n, "body")
	if body != nil {
		sym.Docstring = leadingDocstring(body, src)
		sym.Calls = tscommon.SortedUniqueCalls(extractCalls(body, src))
		for _, stmt := range tscommon.NamedChildren(body) {
			if stmt.Type() == "function_definition" {
				sym.Children = append(sym.Children, extractFunctionDef(stmt, src, name))
			}
		}
	}
	return sym
}

// leadingDocstring returns the text of a function/class body's first
// statement when that statement is a bare string expression.
func leadingDocstring(body *sitter.Node, src []byte) string {
	if int(body.NamedChildCount()) == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" {
		return ""
	}
	if int(first.NamedChildCount()) == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return stripQuotes(tscommon.Text(str, src))
}

func extractClassDef(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "class",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
	}
	if superclasses := tscommon.ChildByField(n, "superclasses"); superclasses != nil {
		sym.Signature = name + tscommon.Text(superclasses, src)
	}

	body := tscommon.ChildByField(n, "body")
	if body == nil {
		return sym
	}
	sym.Docstring = leadingDocstring(body, src)
	for _, stmt := range tscommon.NamedChildren(body) {
		switch stmt.Type() {
		case "function_definition":
			sym.Children = append(sym.Children, extractFunctionDef(stmt, src, name))
		case "expression_statement":
			if names, _, isAll := extractAssignment(stmt, src); !isAll {
				for _, attrName := range names {
					sym.Children = append(sym.Children, model.SymbolNode{
						Name: attrName, Kind: "field", Parent: name,
						Line: tscommon.Line(stmt), EndLine: tscommon.EndLine(stmt),
					})
				}
			}
		}
	}
	return sym
}

// extractCalls walks a function body for plain calls, attribute-access
// calls (recording both the bare method name and receiver.method), and
// decorator-free direct calls.
func extractCalls(body *sitter.Node, src []byte) []string {
	var calls []string
	tscommon.Walk(body, func(node *sitter.Node) bool {
		if node.Type() != "call" {
			return true
		}
		fn := tscommon.ChildByField(node, "function")
		if fn == nil {
			return true
		}
		switch fn.Type() {
		case "identifier":
			calls = append(calls, tscommon.Text(fn, src))
		case "attribute":
			attr := tscommon.ChildByField(fn, "attribute")
			object := tscommon.ChildByField(fn, "object")
			method := tscommon.Text(attr, src)
			calls = append(calls, method)
			if object != nil && object.Type() != "None" {
				calls = append(calls, tscommon.Text(object, src)+"."+method)
			}
		}
		return true
	})
	return calls
}
