// Package curly implements the spec's "curly-brace + JSX family" Parser
// Adapter (module-with-JSX and without) covering JavaScript and TypeScript,
// using the tree-sitter grammars for each. View-framework (React-shaped)
// component detection and HTTP endpoint detection are applied whenever the
// corresponding import is present in the file, per spec §4.1.
package curly

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"projectindex/internal/lang/tscommon"
	"projectindex/internal/model"
)

// Variant selects which concrete grammar an Adapter instance wraps.
type Variant int

const (
	VariantJS Variant = iota
	VariantTS
	VariantTSX
)

// Adapter extracts imports, exports, symbols, components, and endpoints
// from JavaScript/TypeScript/JSX/TSX source.
type Adapter struct {
	variant Variant
}

// New creates a curly-brace+JSX adapter for the given variant.
func New(v Variant) *Adapter { return &Adapter{variant: v} }

func (a *Adapter) Language() string {
	if a.variant == VariantJS {
		return model.LangJavaScript
	}
	return model.LangTypeScript
}

func (a *Adapter) grammar() *sitter.Language {
	switch a.variant {
	case VariantJS:
		return javascript.GetLanguage()
	case VariantTSX:
		return tsx.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

var commentTypes = map[string]bool{"comment": true}

// viewLibraryImports are module specifiers that turn on component detection.
var viewLibraryImports = map[string]bool{
	"react": true, "preact": true, "preact/hooks": true,
}

// serverFrameworkImports maps module specifiers that turn on endpoint
// detection to the framework label they imply — the highest-precedence
// signal per spec §4.1's (a) module import, (b) handler parameter names,
// (c) receiver identifier tie-break order.
var serverFrameworkImports = map[string]string{
	"express": "express", "koa": "koa", "fastify": "fastify",
	"@hapi/hapi": "hapi", "hapi": "hapi",
}

var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true, "patch": true, "head": true, "options": true,
}

func (a *Adapter) Parse(path string, src []byte) (model.ParseResult, error) {
	tree, err := tscommon.Parse(src, a.grammar())
	if err != nil {
		return model.ParseResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return model.ParseResult{}, nil
	}

	var res model.ParseResult
	hasView := false
	hasServer := false
	serverFramework := ""

	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		if n.Type() == "import_statement" || n.Type() == "import" {
			edges, module := extractImport(n, src)
			res.Imports = append(res.Imports, edges...)
			if viewLibraryImports[module] {
				hasView = true
			}
			if fw, ok := serverFrameworkImports[module]; ok {
				hasServer = true
				serverFramework = fw
			}
		}
	}

	// Dynamic imports can appear anywhere in the file body, not just as
	// top-level statements.
	tscommon.Walk(root, func(node *sitter.Node) bool {
		if node.Type() == "call_expression" {
			fn := tscommon.ChildByField(node, "function")
			if fn != nil && fn.Type() == "import" {
				args := tscommon.ChildByField(node, "arguments")
				if args != nil && int(args.NamedChildCount()) > 0 && args.NamedChild(0).Type() == "string" {
					res.Imports = append(res.Imports, model.ImportEdge{
						Module: unquote(tscommon.Text(args.NamedChild(0), src)),
						Names:  []string{"dynamic"},
					})
				}
				// non-literal dynamic import argument: ignored per spec.
			}
		}
		return true
	})

	for i := 0; i < count; i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "export_statement":
			handleExport(n, src, &res)
		case "function_declaration", "generator_function_declaration":
			sym := extractFunctionDecl(n, src)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "class_declaration":
			sym := extractClass(n, src)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "interface_declaration":
			sym := extractInterface(n, src)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "type_alias_declaration":
			sym := simpleSymbol(n, src, "type")
			res.Symbols = append(res.Symbols, sym)
		case "enum_declaration":
			sym := extractEnum(n, src)
			res.Symbols = append(res.Symbols, sym)
			res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		case "lexical_declaration", "variable_declaration":
			res.Symbols = append(res.Symbols, extractVarDecl(n, src)...)
		}

		if hasView {
			res.UIComponents = append(res.UIComponents, detectComponents(n, src)...)
		}
	}

	if hasServer {
		res.APIEndpoints = append(res.APIEndpoints, detectEndpoints(root, src, serverFramework)...)
	}
	// File-routed endpoints: exported top-level functions named GET/POST/etc.
	for _, ex := range res.Exports {
		if ex.Name == strings.ToUpper(ex.Name) && httpMethods[strings.ToLower(ex.Name)] {
			res.APIEndpoints = append(res.APIEndpoints, model.EndpointDecl{
				Method:  strings.ToUpper(ex.Name),
				Path:    path,
				Handler: ex.Name,
				Line:    ex.Line,
				Framework: "file-routed",
			})
		}
	}

	return res, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// extractImport handles static from-style import statements: default,
// named (with optional alias), namespace, and side-effect-only.
func extractImport(n *sitter.Node, src []byte) ([]model.ImportEdge, string) {
	sourceNode := tscommon.ChildByField(n, "source")
	if sourceNode == nil {
		return nil, ""
	}
	module := unquote(tscommon.Text(sourceNode, src))

	clause := findChildOfTypes(n, "import_clause")
	if clause == nil {
		// side-effect import: import "foo";
		return []model.ImportEdge{{Module: module}}, module
	}

	edge := model.ImportEdge{Module: module}
	for _, c := range tscommon.NamedChildren(clause) {
		switch c.Type() {
		case "identifier":
			edge.DefaultImport = true
			edge.Names = append(edge.Names, tscommon.Text(c, src))
		case "namespace_import":
			for _, id := range tscommon.NamedChildren(c) {
				edge.Alias = tscommon.Text(id, src)
			}
		case "named_imports":
			for _, spec := range tscommon.NamedChildren(c) {
				if spec.Type() != "import_specifier" {
					continue
				}
				name := tscommon.ChildByField(spec, "name")
				alias := tscommon.ChildByField(spec, "alias")
				if alias != nil {
					edge.Names = append(edge.Names, tscommon.Text(name, src)+" as "+tscommon.Text(alias, src))
				} else {
					edge.Names = append(edge.Names, tscommon.Text(name, src))
				}
			}
		}
	}
	return []model.ImportEdge{edge}, module
}

func findChildOfTypes(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range tscommon.NamedChildren(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// handleExport records re-exports, default exports, and any declaration
// carrying the export modifier.
func handleExport(n *sitter.Node, src []byte, res *model.ParseResult) {
	// export default ...
	isDefault := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "default" {
			isDefault = true
		}
	}

	// re-export: export { a, b as c } from "mod";  /  export * from "mod"
	if sourceNode := tscommon.ChildByField(n, "source"); sourceNode != nil {
		if exportClause := findChildOfTypes(n, "export_clause"); exportClause != nil {
			for _, spec := range tscommon.NamedChildren(exportClause) {
				if spec.Type() != "export_specifier" {
					continue
				}
				name := tscommon.Text(tscommon.ChildByField(spec, "name"), src)
				alias := tscommon.ChildByField(spec, "alias")
				line := tscommon.Line(spec)
				if alias != nil {
					res.Exports = append(res.Exports, model.ExportDecl{Name: tscommon.Text(alias, src), Kind: "const", Line: line})
				} else {
					res.Exports = append(res.Exports, model.ExportDecl{Name: name, Kind: "const", Line: line})
				}
			}
		} else {
			res.Exports = append(res.Exports, model.ExportDecl{Name: "*", Kind: "const", Line: tscommon.Line(n)})
		}
		return
	}

	decl := findChildOfTypes(n,
		"function_declaration", "generator_function_declaration", "class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"lexical_declaration", "variable_declaration",
	)

	if isDefault {
		line := tscommon.Line(n)
		if decl != nil {
			line = tscommon.Line(decl)
		} else if expr := findChildOfTypes(n, "identifier", "arrow_function", "call_expression"); expr != nil {
			line = tscommon.Line(expr)
		}
		res.Exports = append(res.Exports, model.ExportDecl{Name: "default", Kind: "default", Line: line})
	}

	if decl == nil {
		return
	}

	switch decl.Type() {
	case "function_declaration", "generator_function_declaration":
		sym := extractFunctionDecl(decl, src)
		res.Symbols = append(res.Symbols, sym)
		res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		if !isDefault {
			res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "function", Line: sym.Line, Signature: sym.Signature})
		}
	case "class_declaration":
		sym := extractClass(decl, src)
		res.Symbols = append(res.Symbols, sym)
		res.Outline = append(res.Outline, model.OutlineEntry{Title: sym.Name, Level: 1, Line: sym.Line})
		if !isDefault {
			res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "class", Line: sym.Line})
		}
	case "interface_declaration":
		sym := extractInterface(decl, src)
		res.Symbols = append(res.Symbols, sym)
		if !isDefault {
			res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "interface", Line: sym.Line})
		}
	case "type_alias_declaration":
		sym := simpleSymbol(decl, src, "type")
		res.Symbols = append(res.Symbols, sym)
		if !isDefault {
			res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "type", Line: sym.Line})
		}
	case "enum_declaration":
		sym := extractEnum(decl, src)
		res.Symbols = append(res.Symbols, sym)
		if !isDefault {
			res.Exports = append(res.Exports, model.ExportDecl{Name: sym.Name, Kind: "const", Line: sym.Line})
		}
	case "lexical_declaration", "variable_declaration":
		syms := extractVarDecl(decl, src)
		res.Symbols = append(res.Symbols, syms...)
		if !isDefault {
			for _, s := range syms {
				kind := "let"
				if s.Kind == "constant" {
					kind = "const"
				}
				res.Exports = append(res.Exports, model.ExportDecl{Name: s.Name, Kind: kind, Line: s.Line})
			}
		}
	}
}

func simpleSymbol(n *sitter.Node, src []byte, kind string) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	return model.SymbolNode{
		Name: name, Kind: kind,
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
}

func extractFunctionDecl(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	params := tscommon.ChildByField(n, "parameters")
	retType := tscommon.ChildByField(n, "return_type")
	sig := name + tscommon.Text(params, src)
	if retType != nil {
		sig += tscommon.Text(retType, src)
	}
	sym := model.SymbolNode{
		Name: name, Kind: "function",
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

func extractClass(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "class",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	if body == nil {
		return sym
	}
	for _, member := range tscommon.NamedChildren(body) {
		switch member.Type() {
		case "method_definition":
			mname := tscommon.Text(tscommon.ChildByField(member, "name"), src)
			kind := "method"
			if mname == "constructor" {
				kind = "constructor"
			}
			params := tscommon.ChildByField(member, "parameters")
			child := model.SymbolNode{
				Name: mname, Kind: kind, Parent: name,
				Line: tscommon.Line(member), Column: tscommon.Column(member),
				EndLine: tscommon.EndLine(member), EndColumn: tscommon.EndColumn(member),
				Signature: mname + tscommon.Text(params, src),
				Docstring: tscommon.PrecedingComment(member, src, commentTypes),
			}
			if mbody := tscommon.ChildByField(member, "body"); mbody != nil {
				child.Calls = tscommon.SortedUniqueCalls(extractCalls(mbody, src))
			}
			sym.Children = append(sym.Children, child)
		case "public_field_definition", "field_definition":
			pname := tscommon.Text(tscommon.ChildByField(member, "property"), src)
			sym.Children = append(sym.Children, model.SymbolNode{
				Name: pname, Kind: "property", Parent: name,
				Line: tscommon.Line(member), Column: tscommon.Column(member),
				EndLine: tscommon.EndLine(member), EndColumn: tscommon.EndColumn(member),
			})
		}
	}
	return sym
}

func extractInterface(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "interface",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	if body == nil {
		return sym
	}
	for _, member := range tscommon.NamedChildren(body) {
		switch member.Type() {
		case "method_signature":
			mname := tscommon.Text(tscommon.ChildByField(member, "name"), src)
			sym.Children = append(sym.Children, model.SymbolNode{
				Name: mname, Kind: "method", Parent: name,
				Line: tscommon.Line(member), EndLine: tscommon.EndLine(member),
			})
		case "property_signature":
			pname := tscommon.Text(tscommon.ChildByField(member, "name"), src)
			sym.Children = append(sym.Children, model.SymbolNode{
				Name: pname, Kind: "property", Parent: name,
				Line: tscommon.Line(member), EndLine: tscommon.EndLine(member),
			})
		}
	}
	return sym
}

func extractEnum(n *sitter.Node, src []byte) model.SymbolNode {
	name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
	sym := model.SymbolNode{
		Name: name, Kind: "enum",
		Line: tscommon.Line(n), Column: tscommon.Column(n),
		EndLine: tscommon.EndLine(n), EndColumn: tscommon.EndColumn(n),
		Docstring: tscommon.PrecedingComment(n, src, commentTypes),
	}
	body := tscommon.ChildByField(n, "body")
	for _, member := range tscommon.NamedChildren(body) {
		if member.Type() != "enum_assignment" && member.Type() != "property_identifier" {
			continue
		}
		mname := tscommon.Text(member, src)
		if member.Type() == "enum_assignment" {
			mname = tscommon.Text(tscommon.ChildByField(member, "name"), src)
		}
		sym.Children = append(sym.Children, model.SymbolNode{
			Name: mname, Kind: "enum-member", Parent: name,
			Line: tscommon.Line(member), EndLine: tscommon.EndLine(member),
		})
	}
	return sym
}

func extractVarDecl(n *sitter.Node, src []byte) []model.SymbolNode {
	kind := "variable"
	if n.Type() == "lexical_declaration" {
		keyword := tscommon.Text(n.Child(0), src)
		if keyword == "const" {
			kind = "constant"
		}
	}
	var out []model.SymbolNode
	for _, decl := range tscommon.NamedChildren(n) {
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := tscommon.ChildByField(decl, "name")
		name := tscommon.Text(nameNode, src)
		sym := model.SymbolNode{
			Name: name, Kind: kind,
			Line: tscommon.Line(decl), Column: tscommon.Column(decl),
			EndLine: tscommon.EndLine(decl), EndColumn: tscommon.EndColumn(decl),
			Docstring: tscommon.PrecedingComment(n, src, commentTypes),
		}
		if value := tscommon.ChildByField(decl, "value"); value != nil {
			if value.Type() == "arrow_function" || value.Type() == "function_expression" {
				if body := tscommon.ChildByField(value, "body"); body != nil {
					sym.Calls = tscommon.SortedUniqueCalls(extractCalls(body, src))
				}
				params := tscommon.ChildByField(value, "parameters")
				sym.Signature = name + tscommon.Text(params, src)
			}
		}
		out = append(out, sym)
	}
	return out
}

// extractCalls walks a function body for plain calls, property-access
// calls, constructor calls, and awaited calls.
func extractCalls(body *sitter.Node, src []byte) []string {
	var calls []string
	tscommon.Walk(body, func(node *sitter.Node) bool {
		switch node.Type() {
		case "call_expression":
			fn := tscommon.ChildByField(node, "function")
			appendCallee(&calls, fn, src)
		case "new_expression":
			fn := tscommon.ChildByField(node, "constructor")
			appendCallee(&calls, fn, src)
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
	case "member_expression":
		prop := tscommon.ChildByField(fn, "property")
		obj := tscommon.ChildByField(fn, "object")
		method := tscommon.Text(prop, src)
		*calls = append(*calls, method)
		if obj != nil && obj.Type() != "this" {
			*calls = append(*calls, tscommon.Text(obj, src)+"."+method)
		}
	}
}

// detectComponents classifies a top-level declaration as a functional,
// class, forward-ref/memo, or higher-order-wrapped component.
func detectComponents(n *sitter.Node, src []byte) []model.ComponentDecl {
	var out []model.ComponentDecl

	switch n.Type() {
	case "function_declaration":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		body := tscommon.ChildByField(n, "body")
		if isComponentName(name) || returnsJSX(body) {
			out = append(out, model.ComponentDecl{
				Name: name, Kind: "functional", Line: tscommon.Line(n),
				Hooks: collectHooks(body, src),
			})
		}
	case "class_declaration":
		name := tscommon.Text(tscommon.ChildByField(n, "name"), src)
		heritage := tscommon.ChildByField(n, "heritage")
		if heritage != nil {
			text := tscommon.Text(heritage, src)
			if strings.Contains(text, "Component") || strings.Contains(text, "PureComponent") {
				out = append(out, model.ComponentDecl{Name: name, Kind: "class", Line: tscommon.Line(n)})
			}
		}
	case "lexical_declaration", "variable_declaration":
		for _, decl := range tscommon.NamedChildren(n) {
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := tscommon.Text(tscommon.ChildByField(decl, "name"), src)
			value := tscommon.ChildByField(decl, "value")
			if value == nil {
				continue
			}
			if value.Type() == "arrow_function" || value.Type() == "function_expression" {
				body := tscommon.ChildByField(value, "body")
				if isComponentName(name) || returnsJSX(body) {
					out = append(out, model.ComponentDecl{Name: name, Kind: "functional", Line: tscommon.Line(decl), Hooks: collectHooks(body, src)})
				}
			}
			if value.Type() == "call_expression" {
				out = append(out, detectWrappedComponent(name, value, src)...)
			}
		}
	}
	return out
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	return r >= 'A' && r <= 'Z'
}

func returnsJSX(body *sitter.Node) bool {
	found := false
	tscommon.Walk(body, func(node *sitter.Node) bool {
		if node.Type() == "jsx_element" || node.Type() == "jsx_self_closing_element" || node.Type() == "jsx_fragment" {
			found = true
			return false
		}
		return true
	})
	return found
}

func collectHooks(body *sitter.Node, src []byte) []string {
	var hooks []string
	tscommon.Walk(body, func(node *sitter.Node) bool {
		if node.Type() != "call_expression" {
			return true
		}
		fn := tscommon.ChildByField(node, "function")
		if fn == nil || fn.Type() != "identifier" {
			return true
		}
		name := tscommon.Text(fn, src)
		if strings.HasPrefix(name, "use") && len(name) > 3 {
			hooks = append(hooks, name)
		}
		return true
	})
	return tscommon.SortedUniqueCalls(hooks)
}

func detectWrappedComponent(name string, call *sitter.Node, src []byte) []model.ComponentDecl {
	fn := tscommon.ChildByField(call, "function")
	if fn == nil {
		return nil
	}
	callee := tscommon.Text(fn, src)
	args := tscommon.ChildByField(call, "arguments")

	switch callee {
	case "forwardRef":
		return []model.ComponentDecl{{Name: name, Kind: "forward_ref", Line: tscommon.Line(call)}}
	case "memo":
		wrapped := ""
		if args != nil && int(args.NamedChildCount()) > 0 {
			wrapped = tscommon.Text(args.NamedChild(0), src)
		}
		return []model.ComponentDecl{{Name: name, Kind: "memo", Line: tscommon.Line(call), Wrapped: wrapped}}
	}
	if strings.HasPrefix(callee, "with") && isComponentName(strings.TrimPrefix(callee, "with")) {
		wrapped := ""
		if args != nil && int(args.NamedChildCount()) > 0 {
			wrapped = tscommon.Text(args.NamedChild(0), src)
		}
		return []model.ComponentDecl{{Name: name, Kind: "hoc", Line: tscommon.Line(call), Wrapped: wrapped}}
	}
	return nil
}

// detectEndpoints finds method-call sites on router-like objects whose
// method name is an HTTP verb.
func detectEndpoints(root *sitter.Node, src []byte, importedFramework string) []model.EndpointDecl {
	var out []model.EndpointDecl
	tscommon.Walk(root, func(node *sitter.Node) bool {
		if node.Type() != "call_expression" {
			return true
		}
		fn := tscommon.ChildByField(node, "function")
		if fn == nil || fn.Type() != "member_expression" {
			return true
		}
		obj := tscommon.ChildByField(fn, "object")
		prop := tscommon.ChildByField(fn, "property")
		if obj == nil || prop == nil {
			return true
		}
		method := strings.ToLower(tscommon.Text(prop, src))
		if !httpMethods[method] {
			return true
		}
		receiver := tscommon.Text(obj, src)
		if receiver != "router" && receiver != "app" && receiver != "server" && !strings.HasSuffix(receiver, "Router") {
			return true
		}

		args := tscommon.ChildByField(node, "arguments")
		if args == nil || int(args.NamedChildCount()) < 2 {
			return true
		}
		pathArg := args.NamedChild(0)
		routePath := ""
		if pathArg.Type() == "string" {
			routePath = unquote(tscommon.Text(pathArg, src))
		}

		handlerArg := args.NamedChild(int(args.NamedChildCount()) - 1)
		handler, params := handlerNameAndParams(handlerArg, src)

		out = append(out, model.EndpointDecl{
			Method:    strings.ToUpper(method),
			Path:      routePath,
			Handler:   handler,
			Line:      tscommon.Line(node),
			Framework: inferFramework(importedFramework, receiver, params),
		})
		return true
	})
	return out
}

func handlerNameAndParams(n *sitter.Node, src []byte) (string, []string) {
	if n == nil {
		return "", nil
	}
	switch n.Type() {
	case "identifier":
		return tscommon.Text(n, src), nil
	case "arrow_function", "function_expression":
		params := tscommon.ChildByField(n, "parameters")
		var names []string
		if params != nil {
			for _, p := range tscommon.NamedChildren(params) {
				names = append(names, tscommon.Text(p, src))
			}
		}
		return "anonymous", names
	}
	return tscommon.Text(n, src), nil
}

func inferFramework(importedFramework, receiver string, params []string) string {
	if importedFramework != "" {
		return importedFramework
	}
	for _, p := range params {
		switch p {
		case "ctx":
			return "koa"
		case "request", "reply":
			return "fastify"
		case "req", "res":
			return "express"
		}
	}
	switch receiver {
	case "router", "app":
		return "express"
	case "server":
		return "fastify"
	}
	return "unknown"
}
