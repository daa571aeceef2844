package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	t.Parallel()
	e := New(SymbolNotFound, "no such symbol")
	assert.Equal(t, "symbol_not_found: no such symbol", e.Error())
}

func TestError_WrapIncludesCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk full")
	e := Wrap(IOError, "write index", cause)
	assert.Contains(t, e.Error(), "disk full")
	assert.ErrorIs(t, e, cause)
}

func TestError_IsMatchesByKind(t *testing.T) {
	t.Parallel()
	a := New(PathNotInGraph, "a")
	b := New(PathNotInGraph, "b")
	c := New(IndexMissing, "c")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()
	cases := map[Kind]int{
		IndexMissing:   404,
		PathNotInGraph: 404,
		SymbolNotFound: 404,
		ConfigError:    400,
		ParseFailure:   500,
		IOError:        500,
		EmbeddingError: 500,
	}
	for kind, want := range cases {
		got := HTTPStatus(kind)
		require.Equal(t, want, got, "kind %s", kind)
	}
}
