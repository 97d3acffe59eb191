package state

import (
	"slices"
	"sync"
)

// Memory is an in-memory Store. It is the default backend for tests
// and the conformance harness.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value, or ErrKeyAbsent.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyAbsent
	}
	return slices.Clone(v), nil
}

// Put stores a copy of value under key.
func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)
	return nil
}

// Delete removes key if present.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Scan snapshots the range under the read lock, so iteration is stable
// against concurrent writes.
func (m *Memory) Scan(start, end string) (Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if InRange(k, start, end) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = slices.Clone(m.data[k])
	}
	return &sliceIterator{keys: keys, values: values, pos: -1}, nil
}

// Apply applies the batch under one lock hold.
func (m *Memory) Apply(muts []Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mut := range muts {
		if mut.Delete {
			delete(m.data, mut.Key)
		} else {
			m.data[mut.Key] = slices.Clone(mut.Value)
		}
	}
	return nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// sliceIterator walks a pre-sorted snapshot. Shared by the memory
// backend and the write-set overlay scan.
type sliceIterator struct {
	keys   []string
	values [][]byte
	pos    int
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Key() string {
	return it.keys[it.pos]
}

func (it *sliceIterator) Value() []byte {
	return it.values[it.pos]
}

func (it *sliceIterator) Err() error { return nil }

func (it *sliceIterator) Close() error { return nil }
