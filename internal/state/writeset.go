package state

import (
	"fmt"
	"slices"
)

// WriteSet stages the mutations of one unit of work. Reads go through
// the overlay (a staged write wins over the substrate), so an operation
// observes its own writes; the substrate observes nothing until Commit.
//
// A WriteSet is not safe for concurrent use. Within a unit of work all
// reads and writes are sequential.
type WriteSet struct {
	store Store
	muts  map[string]Mutation
}

var _ KV = (*WriteSet)(nil)

// NewWriteSet opens a unit of work over store.
func NewWriteSet(store Store) *WriteSet {
	return &WriteSet{
		store: store,
		muts:  make(map[string]Mutation),
	}
}

// Get answers from the staged overlay first, then the substrate.
func (ws *WriteSet) Get(key string) ([]byte, error) {
	if mut, ok := ws.muts[key]; ok {
		if mut.Delete {
			return nil, ErrKeyAbsent
		}
		return slices.Clone(mut.Value), nil
	}
	return ws.store.Get(key)
}

// Put stages a write. The latest mutation per key wins.
func (ws *WriteSet) Put(key string, value []byte) error {
	ws.muts[key] = Mutation{Key: key, Value: slices.Clone(value)}
	return nil
}

// Delete stages a removal.
func (ws *WriteSet) Delete(key string) error {
	ws.muts[key] = Mutation{Key: key, Delete: true}
	return nil
}

// Scan merges the substrate range with the staged overlay: staged puts
// appear, staged deletes hide substrate pairs, everything in ascending
// byte order. The result is a snapshot taken at call time.
func (ws *WriteSet) Scan(start, end string) (Iterator, error) {
	it, err := ws.store.Scan(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys []string
	var values [][]byte
	for it.Next() {
		k := it.Key()
		if _, staged := ws.muts[k]; staged {
			continue
		}
		keys = append(keys, k)
		values = append(values, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("scan substrate: %w", err)
	}

	for k, mut := range ws.muts {
		if mut.Delete || !InRange(k, start, end) {
			continue
		}
		keys = append(keys, k)
		values = append(values, slices.Clone(mut.Value))
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if keys[a] < keys[b] {
			return -1
		}
		if keys[a] > keys[b] {
			return 1
		}
		return 0
	})

	sortedKeys := make([]string, len(keys))
	sortedValues := make([][]byte, len(keys))
	for i, idx := range order {
		sortedKeys[i] = keys[idx]
		sortedValues[i] = values[idx]
	}
	return &sliceIterator{keys: sortedKeys, values: sortedValues, pos: -1}, nil
}

// Commit applies every staged mutation to the substrate as one atomic
// batch, in ascending key order, then resets the overlay. Nothing is
// applied when the batch fails.
func (ws *WriteSet) Commit() error {
	if len(ws.muts) == 0 {
		return nil
	}

	muts := make([]Mutation, 0, len(ws.muts))
	for _, mut := range ws.muts {
		muts = append(muts, mut)
	}
	slices.SortFunc(muts, func(a, b Mutation) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})

	if err := ws.store.Apply(muts); err != nil {
		return fmt.Errorf("commit write set: %w", err)
	}
	ws.muts = make(map[string]Mutation)
	return nil
}

// Discard drops every staged mutation without touching the substrate.
func (ws *WriteSet) Discard() {
	ws.muts = make(map[string]Mutation)
}

// Pending returns the number of staged mutations.
func (ws *WriteSet) Pending() int {
	return len(ws.muts)
}
