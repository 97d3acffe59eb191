package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedSource_ScriptFirst(t *testing.T) {
	src := NewScriptedSource("tx", "alpha", "beta")

	assert.Equal(t, "alpha", src.Generate())
	assert.Equal(t, "beta", src.Generate())
}

func TestScriptedSource_FallsBackPastScript(t *testing.T) {
	src := NewScriptedSource("tx", "alpha")

	src.Generate()

	assert.Equal(t, "tx-1", src.Generate())
	assert.Equal(t, "tx-2", src.Generate())
}

func TestScriptedSource_EmptyScriptIsAllFallback(t *testing.T) {
	src := NewScriptedSource("rev")

	assert.Equal(t, "rev-1", src.Generate())
	assert.Equal(t, "rev-2", src.Generate())
}
