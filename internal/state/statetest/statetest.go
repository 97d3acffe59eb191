// Package statetest provides the conformance suite every state backend
// must pass. Backend test files call TestStore with a factory; the
// suite pins down Get/Put/Delete semantics, scan bounds and ordering,
// and atomic batch application, so all backends behave identically
// under the record layer.
package statetest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestor-io/quaestor/internal/state"
)

// Factory opens a fresh, empty store. Cleanup runs via t.Cleanup.
type Factory func(t *testing.T) state.Store

// TestStore runs the full conformance suite against a backend.
func TestStore(t *testing.T, open Factory) {
	t.Run("GetAbsent", func(t *testing.T) {
		s := open(t)
		_, err := s.Get("missing")
		assert.True(t, errors.Is(err, state.ErrKeyAbsent))
	})

	t.Run("PutGet", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("k1", []byte("v1")))

		got, err := s.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("k1", []byte("old")))
		require.NoError(t, s.Put("k1", []byte("new")))

		got, err := s.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("PutEmptyValue", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("k1", []byte{}))

		got, err := s.Get("k1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("k1", []byte("v1")))
		require.NoError(t, s.Delete("k1"))

		_, err := s.Get("k1")
		assert.True(t, errors.Is(err, state.ErrKeyAbsent))
	})

	t.Run("DeleteAbsentIsNoError", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Delete("never-existed"))
	})

	t.Run("ValueIsolation", func(t *testing.T) {
		s := open(t)
		v := []byte("original")
		require.NoError(t, s.Put("k1", v))
		v[0] = 'X'

		got, err := s.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), got, "store must not alias caller buffers")

		got[0] = 'Y'
		again, err := s.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), again, "returned slices are caller-owned")
	})

	t.Run("ScanFullKeyspaceOrdered", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("delta", []byte("4")))
		require.NoError(t, s.Put("alpha", []byte("1")))
		require.NoError(t, s.Put("charlie", []byte("3")))
		require.NoError(t, s.Put("bravo", []byte("2")))

		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, collectKeys(t, s, "", ""))
	})

	t.Run("ScanBounds", func(t *testing.T) {
		s := open(t)
		for _, k := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, s.Put(k, []byte(k)))
		}

		// [start, end): start inclusive, end exclusive.
		assert.Equal(t, []string{"b", "c", "d"}, collectKeys(t, s, "b", "e"))
		assert.Equal(t, []string{"c", "d", "e"}, collectKeys(t, s, "c", ""))
		assert.Equal(t, []string{"a", "b"}, collectKeys(t, s, "", "c"))
		assert.Empty(t, collectKeys(t, s, "x", "z"))
	})

	t.Run("ScanEmptyStore", func(t *testing.T) {
		s := open(t)
		assert.Empty(t, collectKeys(t, s, "", ""))
	})

	t.Run("ScanYieldsValues", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("k1", []byte("v1")))
		require.NoError(t, s.Put("k2", []byte("v2")))

		it, err := s.Scan("", "")
		require.NoError(t, err)
		defer it.Close()

		var values []string
		for it.Next() {
			values = append(values, string(it.Value()))
		}
		require.NoError(t, it.Err())
		assert.Equal(t, []string{"v1", "v2"}, values)
	})

	t.Run("ApplyBatch", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("stale", []byte("x")))

		err := s.Apply([]state.Mutation{
			{Key: "a", Value: []byte("1")},
			{Key: "b", Value: []byte("2")},
			{Key: "stale", Delete: true},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, collectKeys(t, s, "", ""))
		got, err := s.Get("a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), got)

		_, err = s.Get("stale")
		assert.True(t, errors.Is(err, state.ErrKeyAbsent))
	})

	t.Run("ApplyEmptyBatch", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Apply(nil))
	})

	t.Run("UnicodeKeys", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Put("kéy-ü", []byte("v")))

		got, err := s.Get("kéy-ü")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		// Byte order: ASCII sorts before multibyte sequences.
		require.NoError(t, s.Put("zz", []byte("z")))
		assert.Equal(t, []string{"kéy-ü", "zz"}, collectKeys(t, s, "", ""))
	})
}

func collectKeys(t *testing.T, kv state.KV, start, end string) []string {
	t.Helper()

	it, err := kv.Scan(start, end)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for it.Next() {
		keys = append(keys, it.Key())
	}
	require.NoError(t, it.Err())
	return keys
}
