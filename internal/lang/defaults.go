package lang

import (
	"projectindex/internal/lang/curly"
	"projectindex/internal/lang/gofamily"
	"projectindex/internal/lang/pyfamily"
	"projectindex/internal/lang/rustfamily"
	"projectindex/internal/lang/shellfamily"
)

// DefaultRouter returns a Router with every Parser Adapter family
// registered under its conventional extensions.
func DefaultRouter() *Router {
	r := NewRouter()
	r.Register(func() Adapter { return curly.New(curly.VariantJS) }, "js", "jsx", "mjs", "cjs")
	r.Register(func() Adapter { return curly.New(curly.VariantTS) }, "ts")
	r.Register(func() Adapter { return curly.New(curly.VariantTSX) }, "tsx")
	r.Register(func() Adapter { return gofamily.New() }, "go")
	r.Register(func() Adapter { return pyfamily.New() }, "py")
	r.Register(func() Adapter { return rustfamily.New() }, "rs")
	r.Register(func() Adapter { return shellfamily.New() }, "sh", "bash")
	return r
}
