package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)

	recordHash := Digest(DomainRecord, data)
	stateHash := Digest(DomainState, data)

	assert.NotEqual(t, recordHash, stateHash, "same bytes under different domains must differ")
	assert.Len(t, recordHash, 64)
	assert.Len(t, stateHash, 64)
}

func TestDigestBoundarySeparator(t *testing.T) {
	// The null separator keeps domain+data concatenations from aliasing.
	a := Digest("quaestor/x", []byte("ydata"))
	b := Digest("quaestor/xy", []byte("data"))
	assert.NotEqual(t, a, b)
}

func TestDigestDeterministic(t *testing.T) {
	data := []byte("same input")
	assert.Equal(t, Digest(DomainRecord, data), Digest(DomainRecord, data))
}

func TestRecordDigestStable(t *testing.T) {
	a := NewObject(
		F("deploymentID", NewString("D1")),
		F("authorID", NewString("A1")),
	)
	b := NewObject(
		F("authorID", NewString("A1")),
		F("deploymentID", NewString("D1")),
	)

	da, err := RecordDigest(a)
	require.NoError(t, err)
	db, err := RecordDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db, "field order must not affect the digest")
}

func TestRecordDigestError(t *testing.T) {
	_, err := RecordDigest(Object{"bad": nil})
	assert.Error(t, err)
}

func TestStateHasherOrderSensitive(t *testing.T) {
	h1 := NewStateHasher()
	h1.Add("a", []byte("1"))
	h1.Add("b", []byte("2"))

	h2 := NewStateHasher()
	h2.Add("b", []byte("2"))
	h2.Add("a", []byte("1"))

	assert.NotEqual(t, h1.Sum(), h2.Sum(), "pair order is part of the digest")
}

func TestStateHasherFraming(t *testing.T) {
	// Without length framing these two sequences would concatenate to
	// the same byte stream.
	h1 := NewStateHasher()
	h1.Add("ab", []byte("cd"))

	h2 := NewStateHasher()
	h2.Add("a", []byte("bcd"))

	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestStateHasherRepeatable(t *testing.T) {
	build := func() string {
		h := NewStateHasher()
		h.Add("D1", MustMarshal(NewObject(F("deploymentID", NewString("D1")))))
		h.Add("tx-1", MustMarshal(NewObject(F("transactionID", NewString("tx-1")))))
		return h.Sum()
	}
	assert.Equal(t, build(), build())
}

func TestStateHasherEmpty(t *testing.T) {
	// Digest of the empty state is defined and stable.
	assert.Equal(t, NewStateHasher().Sum(), NewStateHasher().Sum())
	assert.NotEmpty(t, NewStateHasher().Sum())
}
