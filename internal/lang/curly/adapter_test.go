package curly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage_JSAndTSVariantsDiffer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "javascript", New(VariantJS).Language())
	assert.Equal(t, "typescript", New(VariantTS).Language())
	assert.Equal(t, "typescript", New(VariantTSX).Language())
}

func TestParse_ExtractsImports(t *testing.T) {
	t.Parallel()
	src := `import express from "express";
import { useState } from "react";
`
	res, err := New(VariantJS).Parse("app.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, res.Imports, 2)
	assert.Equal(t, "express", res.Imports[0].Module)
	assert.Equal(t, "react", res.Imports[1].Module)
}

func TestParse_UppercaseFunctionDeclarationIsAComponent(t *testing.T) {
	t.Parallel()
	src := `import React from "react";

function Widget() {
	return null;
}
`
	res, err := New(VariantJS).Parse("widget.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, res.UIComponents, 1)
	assert.Equal(t, "Widget", res.UIComponents[0].Name)
}

func TestParse_LowercaseArrowFunctionReturningJSXIsAComponent(t *testing.T) {
	t.Parallel()
	// Spec's detection rule is an OR: "return is JSX or name starts with
	// uppercase letter" — a lowercase name with a JSX return must still
	// count as a component.
	src := `import React from "react";

const renderWidget = () => {
	return <div>hi</div>;
};
`
	res, err := New(VariantJS).Parse("widget.jsx", []byte(src))
	require.NoError(t, err)
	require.Len(t, res.UIComponents, 1)
	assert.Equal(t, "renderWidget", res.UIComponents[0].Name)
}

func TestParse_LowercaseArrowFunctionWithoutJSXIsNotAComponent(t *testing.T) {
	t.Parallel()
	src := `import React from "react";

const computeTotal = () => {
	return 1 + 2;
};
`
	res, err := New(VariantJS).Parse("math.js", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, res.UIComponents)
}

func TestParse_EndpointFrameworkPrefersTheImportedModuleOverReceiverOrParams(t *testing.T) {
	t.Parallel()
	// Imports koa, but the receiver is "app" (an express-ish name) and the
	// handler has no "ctx"-named parameter, so only the import signal can
	// tell this apart from express. Spec precedence: (a) module import
	// beats (b) param names beats (c) receiver identifier.
	src := `import Koa from "koa";

const app = new Koa();
app.get("/widgets", (req) => {
	return req;
});
`
	res, err := New(VariantJS).Parse("routes.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, res.APIEndpoints, 1)
	assert.Equal(t, "koa", res.APIEndpoints[0].Framework)
	assert.Equal(t, "GET", res.APIEndpoints[0].Method)
	assert.Equal(t, "/widgets", res.APIEndpoints[0].Path)
}

func TestParse_NoEndpointsWithoutAServerFrameworkImport(t *testing.T) {
	t.Parallel()
	src := `const router = {};
router.post("/items", (ctx) => {
	return ctx;
});
`
	res, err := New(VariantJS).Parse("routes.js", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, res.APIEndpoints, "no server-framework import seen, so endpoint detection never runs")
}
