package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialReferences(t *testing.T) {
	gen := NewSequentialReferences("desk")

	assert.Equal(t, "desk-0001", gen.Generate())
	assert.Equal(t, "desk-0002", gen.Generate())
	assert.Equal(t, "desk-0003", gen.Generate())
}

func TestSequentialReferences_DefaultPrefix(t *testing.T) {
	gen := NewSequentialReferences("")
	assert.Equal(t, "ref-0001", gen.Generate())
}
