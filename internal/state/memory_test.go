package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestor-io/quaestor/internal/state"
	"github.com/quaestor-io/quaestor/internal/state/statetest"
)

func TestMemoryConformance(t *testing.T) {
	statetest.TestStore(t, func(t *testing.T) state.Store {
		return state.NewMemory()
	})
}

func TestMemoryScanSnapshot(t *testing.T) {
	m := state.NewMemory()
	require.NoError(t, m.Put("a", []byte("1")))
	require.NoError(t, m.Put("b", []byte("2")))

	it, err := m.Scan("", "")
	require.NoError(t, err)
	defer it.Close()

	// Writes after Scan must not affect an open iteration.
	require.NoError(t, m.Put("c", []byte("3")))
	require.NoError(t, m.Delete("a"))

	var keys []string
	for it.Next() {
		keys = append(keys, it.Key())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestMemoryLen(t *testing.T) {
	m := state.NewMemory()
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Put("a", []byte("1")))
	require.NoError(t, m.Put("b", []byte("2")))
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Delete("a"))
	assert.Equal(t, 1, m.Len())
}
