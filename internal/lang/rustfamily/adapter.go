// Package rustfamily implements the spec's ownership-typed family Parser
// Adapter for Rust using the tree-sitter Rust grammar.
package rustfamily

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"projectindex/internal/lang/tscommon"
	"projectindex/internal/model"
)

// Adapter extracts use-declarations, pub-visibility exports, items
// (functions, structs, enums, traits, impl blocks, type aliases, consts,
// statics, modules), and call edges from Rust source.
type Adapter struct{}

// New creates a Rust family adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return model.LangRust }

var commentTypes = map[string]bool{"line_comment": true, "block_comment": true}

func (a *Adapter) Parse(path string, src []byte) (model.ParseResult, error) {
	tree, err := tscommon.Parse(src, rust.GetLanguage())
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
		case "use_declaration":
			res.Imports = append(res.Imports, extractUse(n, src)...)
		default:
			if sym, ok := extractItem(n, src); ok {
				res.Symbols = append(res.Symbols, sym)
				res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
				if isPub(n) {
					res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: sym.Kind, Line: sym.Line, Signature: sym.Signature})
				}
			}
		}
	}

	return res, nil
}

func isPub(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

// extractUse flattens a use_declaration tree into one ImportEdge per leaf
// path, handling simple paths, aliases ("as"), glob imports, and grouped
// imports ("use std::{fs, io}").
func extractUse(n *sitter.Node, src []byte) []model.ImportEdge {
	argument := tscommon.ChildByField(n, "argument")
	if argument == nil {
		return nil
	}
	return flattenUseTree(argument, "", src)
}

func flattenUseTree(n *sitter.Node, prefix string, src []byte) []model.ImportEdge {
	switch n.Type() {
	case "scoped_use_list":
		path := tscommon.ChildByField(n, "path")
		listNode := tscommon.ChildByField(n, "list")
		base := prefix
		if path != nil {
			base = joinModule(prefix, tscommon.Text(path, src))
		}
		var out []model.ImportEdge
		for _, item := range tscommon.NamedChildren(listNode) {
			out = append(out, flattenUseTree(item, base, src)...)
		}
		return out
	case "use_list":
		var out []model.ImportEdge
		for _, item := range tscommon.NamedChildren(n) {
			out = append(out, flattenUseTree(item, prefix, src)...)
		}
		return out
	case "scoped_identifier":
		return []model.ImportEdge{{Module: joinModule(prefix, tscommon.Text(n, src))}}
	case "use_as_clause":
		path := tscommon.ChildByField(n, "path")
		alias := tscommon.ChildByField(n, "alias")
		return []model.ImportEdge{{Module: joinModule(prefix, tscommon.Text(path, src)), Alias: tscommon.Text(alias, src)}}
	case "use_wildcard":
		base := prefix
		if path := tscommon.ChildByField(n, "path"); path != nil {
			base = joinModule(prefix, tscommon.Text(path, src))
		}
		return []model.ImportEdge{{Module: base, Names: []string{"*"}}}
	case "identifier", "crate", "self", "super":
		return []model.ImportEdge{{Module: joinModule(prefix, tscommon.Text(n, src))}}
	default:
		return []model.ImportEdge{{Module: joinModule(prefix, tscommon.Text(n, src))}}
	}
}

func joinModule(prefix, leaf string) string {
	if prefix == "" {
		return leaf
	}
	return prefix + "::" + leaf
}

func extractItem(n *sitter.Node, src []byte) (model.SymbolNode, bool) {
	switch n.Type() {
	case "function_item":
		return extractFunctionItem(n, src, ""), true
	case "struct_item":
		return extractStructItem(n, src), true
	case "enum_item":
		return extractEnumItem(n, src), true
	case "trait_item":
		return extractTraitItem(n, src), true
	case "impl_item":
		return extractImplItem(n, src), true
	case "type_item":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		return model.SymbolNode{
			Name: name, Kind: "type-alias",
			Line: tscommon.Line(n), EndLine: tscommon.EndLine(n),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}, true
	case "const_item":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		return model.SymbolNode{
			Name: name, Kind: "constant",
			Line: tscommon.Line(n), EndLine: tscommon.EndLine(n),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}, true
	case "static_item":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		return model.SymbolNode{
			Name: name, Kind: "variable",
			Line: tscommon.Line(n), EndLine: tscommon.EndLine(n),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}, true
	case "mod_item":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		sym := model.SymbolNode{
			Name: name, Kind: "module",
			Line: tscommon.Line(n), EndLine: tscommon.EndLine(n),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}
		if body := tscommon.ChildByField(n, "body"); body != nil {
			for _, item := range tscommon.NamedChildren(body) {
				if child, ok := extractItem(item, src); ok {
					child.Parent = name
					sym.Children = append(sym.Children, child)
				}
			}
		}
		return sym, true
	}
	return model.SymbolNode{}, false
}

func extractFunctionItem(n *sitter.Node, src []byte, parent string) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	params := tscommon.ChildByField(n, "parameters")
	retType := tscommon.ChildByField(n, "return_type")
	sig := name + tscommon.Text(params, src)
	if retType != nil {
		sig += " -> " + tscommon.Text(retType, src)
	}
	kind := "function"
	if parent != "" {
		kind = "method"
	}
	sym := model.SymbolNode{
		Name: name, Kind: kind, Parent: parent,
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Signature: sig,
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	if body := tscommon.ChildByField(n, "body"); body != nil {
		sym.Calls = tscommon.SortedUniqueCalls(extractCalls(body, src))
	}
	return sym
}

func extractStructItem(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "struct",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	if body == nil {
		return sym
	}
	for _, field := range tscommon.NamedChildren(body) {
		if field.Type() != "field_declaration" {
			continue
		}
		fname := tscommon.Text(tscommon.ChildByField(field, "name"), src)
		ftype := tscommon.ChildByField(field, "type")
		sym.Children = append(sym.Children, model.SymbolNode{
			Name: fname, Kind: "field", Parent: name,
			Line: tscommon.Line(field), EndLine: tscommon.EndLine(field),
			Signature: tscommon.Text(ftype, src),
		})
	}
	return sym
}

func extractEnumItem(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "enum",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	for _, variant := range tscommon.NamedChildren(body) {
		if variant.Type() != "enum_variant" {
			continue
		}
		vname := tscommon.Text(tscommon.ChildByField(variant, "name"), src)
		sym.Children = append(sym.Children, model.SymbolNode{
			Name: vname, Kind: "enum-member", Parent: name,
			Line: tscommon.Line(variant), EndLine: tscommon.EndLine(variant),
		})
	}
	return sym
}

func extractTraitItem(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "trait",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	for _, member := range tscommon.NamedChildren(body) {
		switch member.Type() {
		case "function_item", "function_signature_item":
			sym.Children = append(sym.Children, extractFunctionItem(member, src, name))
		}
	}
	return sym
}

// extractImplItem produces a synthetic symbol named "Type" or "Trait for
// Type" whose children are the methods defined in the impl block.
func extractImplItem(n *sitter.Node, src []byte) model.SymbolNode {
	typeNode := tscommon.ChildByField(n, "type")
	traitNode := tscommon.ChildByField(n, "trait")
	typeName := tscommon.Text(typeNode, src)
	name := typeName
	if traitNode != nil {
		name = tscommon.Text(traitNode, src) + " for " + typeName
	}
	sym := model.SymbolNode{
		Name: name, Kind: "impl",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	for _, member := range tscommon.NamedChildren(body) {
		switch member.Type() {
		case "function_item":
			sym.Children = append(sym.Children, extractFunctionItem(member, src, typeName))
		case "const_item":
			cname := tscommon.Text(tscommon.ChildByField(member, "name"), src)
			sym.Children = append(sym.Children, model.SymbolNode{
				Name: cname, Kind: "constant", Parent: typeName,
				Line: tscommon.Line(member), EndLine: tscommon.EndLine(member),
			})
		}
	}
	return sym
}

// extractCalls walks a function body for plain calls, path-qualified calls
// (Type::method), field/method calls, and macro invocations (name!(...)).
func extractCalls(body *sitter.Node, src []byte) []string {
	var calls []string
	tscommon.Walk(body, func(node *sitter.Node) bool {
		switch node.Type() {
		case "call_expression":
			fn := tscommon.ChildByField(node, "function")
			appendCallee(&calls, fn, src)
		case "macro_invocation":
			mac := tscommon.ChildByField(node, "macro")
			if mac != nil {
				calls = append(calls, tscommon.Text(mac, src)+"!")
			}
		}
		return true
	})
	return calls
}

func appendCallee(calls *[]string, fn *sitter.Node, src []byte) {
	if fn == nil {
		return
	}
	switch fn.Type() {
	case "identifier":
		*calls = append(*calls, tscommon.Text(fn, src))
	case "scoped_identifier":
		name := tscommon.ChildByField(fn, "name")
		*calls = append(*calls, tscommon.Text(name, src), tscommon.Text(fn, src))
	case "field_expression":
		field := tscommon.ChildByField(fn, "field")
		value := tscommon.ChildByField(fn, "value")
		method := tscommon.Text(field, src)
		*calls = append(*calls, method)
		if value != nil && value.Type() != "self" {
			*calls = append(*calls, tscommon.Text(value, src)+"."+method)
		}
	}
}
