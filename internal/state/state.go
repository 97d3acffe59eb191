package state

import "errors"

// ErrKeyAbsent is returned by Get when the key does not exist. Every
// backend maps its native not-found signal to this sentinel.
var ErrKeyAbsent = errors.New("key absent")

// KV is the narrow substrate interface: point reads and writes plus an
// ordered range scan. Both concrete backends and the WriteSet overlay
// implement it, so callers are indifferent to whether they run against
// raw state or inside a unit of work.
type KV interface {
	// Get returns the value for key, or ErrKeyAbsent.
	Get(key string) ([]byte, error)

	// Put writes value under key unconditionally.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error at
	// this layer; existence gating belongs to callers.
	Delete(key string) error

	// Scan returns an iterator over [start, end) in ascending byte
	// order. Empty bounds mean unbounded on that side; Scan("", "")
	// walks the full keyspace.
	Scan(start, end string) (Iterator, error)
}

// Store is a KV backed by a concrete backend. It owns resources and
// supports atomic application of a staged mutation set.
type Store interface {
	KV

	// Apply applies the mutations as one atomic batch: either every
	// mutation becomes visible or none does.
	Apply(muts []Mutation) error

	// Close releases backend resources.
	Close() error
}

// Mutation is one staged write. Delete true means the key is removed;
// otherwise Value is written.
type Mutation struct {
	Key    string
	Value  []byte
	Delete bool
}

// Iterator walks a key range in ascending byte order.
//
// Usage:
//
//	it, err := kv.Scan("", "")
//	...
//	defer it.Close()
//	for it.Next() {
//	    _ = it.Key()
//	    _ = it.Value()
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator interface {
	// Next advances to the next pair, returning false at the end or on
	// error.
	Next() bool

	// Key returns the current key. Valid only after Next returns true.
	Key() string

	// Value returns the current value. The slice is owned by the
	// caller.
	Value() []byte

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases iteration resources.
	Close() error
}

// NewSnapshot returns an Iterator over pre-sorted parallel key/value
// slices. Backends whose native transactions close on return (badger,
// bolt) materialize their range into a snapshot.
func NewSnapshot(keys []string, values [][]byte) Iterator {
	return &sliceIterator{keys: keys, values: values, pos: -1}
}

// InRange reports whether key falls inside [start, end) with empty
// bounds meaning unbounded. Shared by overlay and backend scans so
// every implementation agrees on bound semantics.
func InRange(key, start, end string) bool {
	if start != "" && key < start {
		return false
	}
	if end != "" && key >= end {
		return false
	}
	return true
}
