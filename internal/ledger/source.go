package ledger

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TxContext carries the per-transaction identity every write
// operation stamps into the audit trail.
//
// ID becomes the transaction log key for the unit of work and
// Timestamp becomes the recorded time, so two contexts with the
// same fields replay to identical world-state bytes.
type TxContext struct {
	// ID uniquely identifies the unit of work.
	ID string

	// Timestamp is the time recorded for the unit of work.
	Timestamp time.Time
}

// NewTxContext builds a TxContext, normalizing the timestamp to UTC
// so recorded times do not depend on the host zone.
func NewTxContext(id string, ts time.Time) TxContext {
	return TxContext{ID: id, Timestamp: ts.UTC()}
}

// TokenSource yields unique identifiers for transactions and
// revocation records.
type TokenSource interface {
	Generate() string
}

// UUIDv7Source generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 leads with a timestamp, so identifiers sort by creation
// time and transaction log keys come back in roughly chronological
// order under a full keyspace scan. Stateless, safe for concurrent
// use.
type UUIDv7Source struct{}

// Generate returns a fresh hyphenated UUIDv7, e.g.
// "01919f9e-8a3c-7cc0-a36b-30e24e3b2ab1". Panics only if the OS
// entropy source fails.
func (s UUIDv7Source) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedSource returns predetermined identifiers, for tests that pin
// world-state bytes: a known identifier sequence makes the resulting
// state comparable against goldens. Safe for concurrent use.
type FixedSource struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedSource creates a source that returns identifiers in order.
//
// Example:
//
//	src := NewFixedSource("tx-1", "tx-2", "tx-3")
//	src.Generate() // "tx-1"
//	src.Generate() // "tx-2"
//	src.Generate() // "tx-3"
//	src.Generate() // panic: all identifiers exhausted
func NewFixedSource(tokens ...string) *FixedSource {
	return &FixedSource{
		tokens: tokens,
		idx:    0,
	}
}

// Generate returns the next scripted identifier. It panics once the
// script runs out: a scenario that performs more writes than it
// scripted identifiers for is misconfigured, and the panic surfaces
// that immediately.
func (s *FixedSource) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.tokens) {
		panic("FixedSource: all identifiers exhausted")
	}
	token := s.tokens[s.idx]
	s.idx++
	return token
}

// identPattern constrains identifiers used as world-state keys.
// Hyphenated UUIDs match it.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// validIdentifier reports whether id is non-empty and contains only
// characters safe to use as a world-state key.
func validIdentifier(id string) bool {
	return identPattern.MatchString(id)
}
