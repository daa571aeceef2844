package hashsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()
	a := Hash([]byte("package main\n"))
	b := Hash([]byte("package main\n"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestHash_DiffersOnContentChange(t *testing.T) {
	t.Parallel()
	a := Hash([]byte("package main\n"))
	b := Hash([]byte("package main // changed\n"))
	assert.NotEqual(t, a, b)
}

func TestHash_EmptyInput(t *testing.T) {
	t.Parallel()
	h := Hash(nil)
	assert.Len(t, h, 16)
}
