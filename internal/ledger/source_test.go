package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Source_ValidFormat(t *testing.T) {
	src := UUIDv7Source{}
	id := src.Generate()

	assert.Len(t, id, 36, "hyphenated UUID is 36 characters")

	parsed, err := uuid.Parse(id)
	require.NoError(t, err, "id should be a valid UUID")
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestUUIDv7Source_Uniqueness(t *testing.T) {
	src := UUIDv7Source{}
	const iterations = 1000

	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := src.Generate()
		require.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}

func TestUUIDv7Source_MatchesIdentifierPattern(t *testing.T) {
	src := UUIDv7Source{}
	for i := 0; i < 100; i++ {
		assert.True(t, validIdentifier(src.Generate()))
	}
}

func TestFixedSource_ReturnsInOrder(t *testing.T) {
	src := NewFixedSource("tx-1", "tx-2", "tx-3")

	assert.Equal(t, "tx-1", src.Generate())
	assert.Equal(t, "tx-2", src.Generate())
	assert.Equal(t, "tx-3", src.Generate())
}

func TestFixedSource_PanicsWhenExhausted(t *testing.T) {
	src := NewFixedSource("only")
	src.Generate()

	assert.Panics(t, func() { src.Generate() })
}

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"D1", true},
		{"deploy_01.alpha-2", true},
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"", false},
		{"has space", false},
		{"tab\there", false},
		{"slash/key", false},
		{"naïve", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, validIdentifier(tt.id))
		})
	}
}

func TestNewTxContext_NormalizesToUTC(t *testing.T) {
	behind := time.FixedZone("UTC-4", -4*60*60)

	tx := NewTxContext("tx-1", time.Date(2024, 5, 1, 8, 0, 0, 0, behind))

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, time.UTC, tx.Timestamp.Location())
	assert.Equal(t, 12, tx.Timestamp.Hour())
}
