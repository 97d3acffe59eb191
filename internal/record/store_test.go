package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestor-io/quaestor/internal/canon"
	"github.com/quaestor-io/quaestor/internal/state"
)

func TestGetNotFound(t *testing.T) {
	kv := state.NewMemory()

	_, err := Get(kv, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestGetZeroLengthIsNotFound(t *testing.T) {
	kv := state.NewMemory()
	require.NoError(t, kv.Put("empty", []byte{}))

	_, err := Get(kv, "empty")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = GetBytes(kv, "empty")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPutGetRoundTrip(t *testing.T) {
	kv := state.NewMemory()
	obj := validDeployment()

	require.NoError(t, Put(kv, "D1", obj))

	got, err := Get(kv, "D1")
	require.NoError(t, err)
	assert.Equal(t, obj, got)

	// The stored bytes are the canonical encoding.
	raw, err := GetBytes(kv, "D1")
	require.NoError(t, err)
	assert.Equal(t, string(canon.MustMarshal(obj)), string(raw))
}

func TestPutWritesUnconditionally(t *testing.T) {
	kv := state.NewMemory()

	require.NoError(t, Put(kv, "D1", validDeployment()))

	changed := validDeployment()
	changed["comment"] = canon.NewString("updated")
	require.NoError(t, Put(kv, "D1", changed))

	got, err := Get(kv, "D1")
	require.NoError(t, err)
	comment, _ := got.GetString("comment")
	assert.Equal(t, "updated", comment)
}

func TestGetMalformed(t *testing.T) {
	kv := state.NewMemory()
	require.NoError(t, kv.Put("bad", []byte("not json at all")))

	_, err := Get(kv, "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestExists(t *testing.T) {
	kv := state.NewMemory()

	ok, err := Exists(kv, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put("empty", []byte{}))
	ok, err = Exists(kv, "empty")
	require.NoError(t, err)
	assert.False(t, ok, "zero-length value counts as absent")

	require.NoError(t, Put(kv, "D1", validDeployment()))
	ok, err = Exists(kv, "D1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteUnconditional(t *testing.T) {
	kv := state.NewMemory()
	require.NoError(t, Put(kv, "D1", validDeployment()))

	require.NoError(t, Delete(kv, "D1"))
	ok, err := Exists(kv, "D1")
	require.NoError(t, err)
	assert.False(t, ok)

	// No existence gate at this layer.
	assert.NoError(t, Delete(kv, "D1"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		obj  canon.Object
		want *Kind
	}{
		{
			name: "deployment",
			obj:  canon.Object{"deploymentID": canon.String("D1")},
			want: Deployment,
		},
		{
			name: "revocation",
			obj:  canon.Object{"revocationID": canon.String("rev-1")},
			want: Revocation,
		},
		{
			name: "transaction log",
			obj:  canon.Object{"transactionID": canon.String("tx-1")},
			want: TransactionLog,
		},
		{
			name: "no kind",
			obj:  canon.Object{"unrelated": canon.String("x")},
			want: nil,
		},
		{
			name: "priority order wins on a multi-tag record",
			obj: canon.Object{
				"deploymentID":  canon.String("D1"),
				"transactionID": canon.String("tx-1"),
			},
			want: TransactionLog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, Classify(tt.obj))
		})
	}
}

func seedMixedKeyspace(t *testing.T) *state.Memory {
	t.Helper()

	kv := state.NewMemory()
	require.NoError(t, Put(kv, "D1", validDeployment()))
	require.NoError(t, Put(kv, "rev-1", canon.NewObject(
		canon.F("revocationID", canon.NewString("rev-1")),
		canon.F("targetDeploymentID", canon.NewString("D0")),
		canon.F("reason", canon.NewString("bad build")),
	)))
	require.NoError(t, Put(kv, "tx-1", canon.NewObject(
		canon.F("transactionID", canon.NewString("tx-1")),
		canon.F("authorID", canon.NewString("A1")),
		canon.F("time", canon.NewString("2024-01-15T10:00:00Z")),
		canon.F("description", canon.NewString("deployment D1 created")),
	)))
	require.NoError(t, kv.Put("junk", []byte("opaque garbage")))
	return kv
}

func TestListFiltersByKind(t *testing.T) {
	kv := seedMixedKeyspace(t)

	deployments, err := List(kv, Deployment)
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	id, _ := deployments[0].GetString("deploymentID")
	assert.Equal(t, "D1", id)

	revocations, err := List(kv, Revocation)
	require.NoError(t, err)
	require.Len(t, revocations, 1)
	for _, r := range revocations {
		assert.True(t, r.Has("revocationID"), "typed listing must never yield a record lacking the kind's key field")
	}

	logs, err := List(kv, TransactionLog)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestListRawCarriesMalformed(t *testing.T) {
	kv := seedMixedKeyspace(t)

	decoded, err := ListRaw(kv)
	require.NoError(t, err)
	require.Len(t, decoded, 4)

	// Scan order is key byte order.
	assert.Equal(t, "D1", decoded[0].Key)
	assert.Equal(t, "junk", decoded[1].Key)
	assert.Equal(t, "rev-1", decoded[2].Key)
	assert.Equal(t, "tx-1", decoded[3].Key)

	junk := decoded[1]
	assert.Nil(t, junk.Object)
	assert.Nil(t, junk.Kind)
	assert.Equal(t, "opaque garbage", junk.Raw)
}

func TestListExcludesMalformedAndUnclassified(t *testing.T) {
	kv := seedMixedKeyspace(t)
	// Parses fine but matches no kind.
	require.NoError(t, kv.Put("stray", []byte(`{"unrelated":"x"}`)))

	for _, kind := range Priority() {
		records, err := List(kv, kind)
		require.NoError(t, err)
		for _, r := range records {
			assert.True(t, r.Has(kind.KeyField))
		}
		assert.Len(t, records, 1)
	}
}

func TestListEmptyKeyspace(t *testing.T) {
	kv := state.NewMemory()

	records, err := List(kv, Deployment)
	require.NoError(t, err)
	assert.Empty(t, records)
}
