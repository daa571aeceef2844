// Package gofamily implements the spec's "C-like systems family (Go-style)"
// Parser Adapter using the tree-sitter Go grammar.
package gofamily

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"projectindex/internal/lang/tscommon"
	"projectindex/internal/model"
)

// Adapter extracts imports, exports (by capitalization), symbols, and call
// edges from Go source using tree-sitter.
type Adapter struct{}

// New creates a Go family adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return model.LangGo }

var commentTypes = map[string]bool{"comment": true}

func (a *Adapter) Parse(path string, src []byte) (model.ParseResult, error) {
	tree, err := tscommon.Parse(src, golang.GetLanguage())
	if err != nil {
		return model.ParseResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return model.ParseResult{}, nil
	}

	var res model.ParseResult
	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "import_declaration":
			res.Imports = append(res.Imports, extractImports(n, src)...)
		case "function_declaration":
			sym := extractFunc(n, src, "")
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
			if isExported(sym.Name) {
				res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "function", Line: sym.Line, Signature: sym.Signature})
			}
		case "method_declaration":
			recv := receiverType(n, src)
			sym := extractFunc(n, src, recv)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
			if isExported(methodName(n, src)) {
				res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "function", Line: sym.Line, Signature: sym.Signature})
			}
		case "type_declaration":
			for _, sym := range extractTypeDecl(n, src) {
				res.Symbols = append(res.Symbols, sym)
				res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
				if isExported(sym.Name) {
					res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: exportKindForType(sym.Kind), Line: sym.Line})
				}
			}
		case "const_declaration", "var_declaration":
			kind := "constant"
			if n.Type() == "var_declaration" {
				kind = "variable"
			}
			for _, sym := range extractValueDecl(n, src, kind) {
				res.Symbols = append(res.Symbols, sym)
				if isExported(sym.Name) {
					res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: kind, Line: sym.Line})
				}
			}
		}
	}

	return res, nil
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	return r >= 'A' && r <= 'Z'
}

func exportKindForType(symKind string) string {
	switch symKind {
	case "interface":
		return "interface"
	default:
		return "type"
	}
}

func extractImports(n *sitter.Node, src []byte) []model.ImportEdge {
	var edges []model.ImportEdge
	tscommon.Walk(n, func(node *sitter.Node) bool {
		if node.Type() != "import_spec" {
			return true
		}
		pathNode := tscommon.ChildByField(node, "path")
		module := unquote(tscommon.Text(pathNode, src))
		edge := model.ImportEdge{Module: module}
		if nameNode := tscommon.ChildByField(node, "name"); nameNode != nil {
			alias := tscommon.Text(nameNode, src)
			switch alias {
			case "_":
				// side-effect import
			case ".":
				edge.Alias = "."
			default:
				edge.Alias = alias
			}
		}
		edges = append(edges, edge)
		return false
	})
	return edges
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func methodName(n *sitter.Node, src []byte) string {
	return tscommon.Text(tscommon.ChildByField(n, "name"), src)
}

func receiverType(n *sitter.Node, src []byte) string {
	recv := tscommon.ChildByField(n, "receiver")
	if recv == nil {
		return ""
	}
	// receiver is a parameter_list with one parameter_declaration whose
	// type is either a type_identifier or a pointer_type wrapping one.
	typ := ""
	tscommon.Walk(recv, func(node *sitter.Node) bool {
		switch node.Type() {
		case "type_identifier":
			if typ == "" {
				typ = tscommon.Text(node, src)
			}
		}
		return true
	})
	return typ
}

func extractFunc(n *sitter.Node, src []byte, recv string) model.SymbolNode {
	name := methodName(n, src)
	kind := "function"
	if recv != "" {
		kind = "method"
		name = recv + "." + name
	}
	params := tscommon.ChildByField(n, "parameters")
	result := tscommon.ChildByField(n, "result")
	sig := name + tscommon.Text(params, src)
	if result != nil {
		sig += " " + tscommon.Text(result, src)
	}

	sym := model.SymbolNode{
		Name:      name,
		Kind:      kind,
		Line:      tscommon.Line(n),
		Column:    tscommon.Column(n),
		EndLine:   tscommon.EndLine(n),
		EndColumn: tscommon.EndColumn(n),
		Signature: sig,
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}

	if body := tscommon.ChildByField(n, "body"); body != nil {
		sym.Calls = tscommon.SortedUniqueCalls(extractCalls(body, src))
	}
	return sym
}

func extractCalls(body *sitter.Node, src []byte) []string {
	var calls []string
	tscommon.Walk(body, func(node *sitter.Node) bool {
		if node.Type() != "call_expression" {
			return true
		}
		fn := tscommon.ChildByField(node, "function")
		if fn == nil {
			return true
		}
		switch fn.Type() {
		case "identifier":
			calls = append(calls, tscommon.Text(fn, src))
		case "selector_expression":
			field := tscommon.ChildByField(fn, "field")
			operand := tscommon.ChildByField(fn, "operand")
			method := tscommon.Text(field, src)
			full := tscommon.Text(fn, src)
			calls = append(calls, method, full)
			_ = operand
		}
		return true
	})
	return calls
}

func extractTypeDecl(n *sitter.Node, src []byte) []model.SymbolNode {
	var syms []model.SymbolNode
	for _, spec := range tscommon.NamedChildren(n) {
		if spec.Type() != "type_spec" {
			continue
		}
		name := tscommon.Text(tscommon.ChildByField(spec, "name"), src)
		typeNode := tscommon.ChildByField(spec, "type")
		sym := model.SymbolNode{
			Name:      name,
			Line:      tscommon.Line(spec),
			Column:    tscommon.Column(spec),
			EndLine:   tscommon.EndLine(spec),
			EndColumn: tscommon.EndColumn(spec),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}
		if typeNode == nil {
			sym.Kind = "type-parameter"
			syms = append(syms, sym)
			continue
		}
		switch typeNode.Type() {
		case "struct_type":
			sym.Kind = "struct"
			sym.Children = structFields(typeNode, src, name)
		case "interface_type":
			sym.Kind = "interface"
			sym.Children = interfaceMethods(typeNode, src, name)
		default:
			sym.Kind = "type-parameter"
		}
		syms = append(syms, sym)
	}
	return syms
}

func structFields(n *sitter.Node, src []byte, parent string) []model.SymbolNode {
	var out []model.SymbolNode
	fieldList := n
	if fieldList.Type() == "struct_type" {
		if fl := tscommon.ChildByField(n, "body"); fl != nil {
			fieldList = fl
		}
	}
	tscommon.Walk(fieldList, func(node *sitter.Node) bool {
		if node.Type() != "field_declaration" {
			return true
		}
		nameNode := tscommon.ChildByField(node, "name")
		typeNode := tscommon.ChildByField(node, "type")
		name := tscommon.Text(nameNode, src)
		if name == "" {
			name = tscommon.Text(typeNode, src) // embedded field
		}
		out = append(out, model.SymbolNode{
			Name:      name,
			Kind:      "field",
			Line:      tscommon.Line(node),
			Column:    tscommon.Column(node),
			EndLine:   tscommon.EndLine(node),
			EndColumn: tscommon.EndColumn(node),
			Parent:    parent,
			Signature: tscommon.Text(typeNode, src),
		})
		return false
	})
	return out
}

func interfaceMethods(n *sitter.Node, src []byte, parent string) []model.SymbolNode {
	var out []model.SymbolNode
	tscommon.Walk(n, func(node *sitter.Node) bool {
		if node.Type() != "method_spec" {
			return true
		}
		name := tscommon.Text(tscommon.ChildByField(node, "name"), src)
		params := tscommon.ChildByField(node, "parameters")
		result := tscommon.ChildByField(node, "result")
		sig := name + tscommon.Text(params, src)
		if result != nil {
			sig += " " + tscommon.Text(result, src)
		}
		out = append(out, model.SymbolNode{
			Name:      name,
			Kind:      "method",
			Line:      tscommon.Line(node),
			Column:    tscommon.Column(node),
			EndLine:   tscommon.EndLine(node),
			EndColumn: tscommon.EndColumn(node),
			Parent:    parent,
			Signature: sig,
		})
		return false
	})
	return out
}

func extractValueDecl(n *sitter.Node, src []byte, kind string) []model.SymbolNode {
	var out []model.SymbolNode
	specType := "const_spec"
	if kind == "variable" {
		specType = "var_spec"
	}
	for _, spec := range tscommon.NamedChildren(n) {
		if spec.Type() != specType {
			continue
		}
		for _, name := range tscommon.NamedChildren(spec) {
			if name.Type() != "identifier" {
				continue
			}
			out = append(out, model.SymbolNode{
				Name:    tscommon.Text(name, src),
				Kind:    kind,
				Line:    tscommon.Line(spec),
				Column:  tscommon.Column(spec),
				EndLine: tscommon.EndLine(spec),
				EndColumn: tscommon.EndColumn(spec),
			})
		}
	}
	return out
}
