package gofamily

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `package sample

import (
	"fmt"
	alias "strings"
	_ "embed"
)

const MaxRetries = 3

var defaultName = "anon"

// Greeter says hello to someone.
type Greeter struct {
	Name string
}

type Speaker interface {
	Speak() string
}

// Greet returns a greeting for name.
func Greet(name string) string {
	fmt.Println(alias.ToUpper(name))
	return helper(name)
}

func helper(name string) string {
	return name
}

func (g *Greeter) Speak() string {
	return Greet(g.Name)
}
`

func TestParse_ExtractsImports(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	require.Len(t, res.Imports, 3)
	assert.Equal(t, "fmt", res.Imports[0].Module)
	assert.Empty(t, res.Imports[0].Alias)
	assert.Equal(t, "strings", res.Imports[1].Module)
	assert.Equal(t, "alias", res.Imports[1].Alias)
	assert.Equal(t, "embed", res.Imports[2].Module)
	assert.Empty(t, res.Imports[2].Alias, "blank-identifier side-effect import has no alias")
}

func TestParse_ExtractsTopLevelFunctionsAndMethod(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	var names []string
	for _, s := range res.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Greet")
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "Greeter.Speak")
}

func TestParse_ExportedVsUnexportedFunctions(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	var exportNames []string
	for _, e := range res.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.Contains(t, exportNames, "Greet")
	assert.Contains(t, exportNames, "Greeter.Speak")
	assert.NotContains(t, exportNames, "helper")
}

func TestParse_FunctionHasDocstringAndCalls(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	var greet *struct {
		calls []string
		doc   string
	}
	for _, s := range res.Symbols {
		if s.Name == "Greet" {
			greet = &struct {
				calls []string
				doc   string
			}{calls: s.Calls, doc: s.Docstring}
		}
	}
	require.NotNil(t, greet)
	assert.Contains(t, greet.doc, "Greet returns a greeting")
	assert.Contains(t, greet.calls, "Println")
	assert.Contains(t, greet.calls, "helper")
}

func TestParse_StructAndInterfaceTypes(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	var greeter, speaker *struct {
		kind     string
		children []string
	}
	for _, s := range res.Symbols {
		switch s.Name {
		case "Greeter":
			var fields []string
			for _, c := range s.Children {
				fields = append(fields, c.Name)
			}
			greeter = &struct {
				kind     string
				children []string
			}{kind: s.Kind, children: fields}
		case "Speaker":
			var methods []string
			for _, c := range s.Children {
				methods = append(methods, c.Name)
			}
			speaker = &struct {
				kind     string
				children []string
			}{kind: s.Kind, children: methods}
		}
	}

	require.NotNil(t, greeter)
	assert.Equal(t, "struct", greeter.kind)
	assert.Contains(t, greeter.children, "Name")

	require.NotNil(t, speaker)
	assert.Equal(t, "interface", speaker.kind)
	assert.Contains(t, speaker.children, "Speak")
}

func TestParse_ConstAndVarDecls(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("sample.go", []byte(fixture))
	require.NoError(t, err)

	var constKind, varKind string
	for _, s := range res.Symbols {
		switch s.Name {
		case "MaxRetries":
			constKind = s.Kind
		case "defaultName":
			varKind = s.Kind
		}
	}
	assert.Equal(t, "constant", constKind)
	assert.Equal(t, "variable", varKind)

	var exportNames []string
	for _, e := range res.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.Contains(t, exportNames, "MaxRetries")
	assert.NotContains(t, exportNames, "defaultName")
}

func TestParse_EmptySource(t *testing.T) {
	t.Parallel()
	res, err := New().Parse("empty.go", []byte("package empty\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Symbols)
	assert.Empty(t, res.Imports)
}

func TestLanguage_ReportsGo(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "go", New().Language())
}
