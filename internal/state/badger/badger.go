// Package badger provides the BadgerDB-backed state store.
//
// Scans materialize their range under one read transaction: badger
// iterators cannot outlive the transaction that created them, and the
// record layer consumes full scans anyway.
package badger

import (
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/quaestor-io/quaestor/internal/state"
)

// Store is a state.Store backed by a Badger database directory.
type Store struct {
	db *badgerdb.DB
}

var _ state.Store = (*Store)(nil)

// Open creates or opens a Badger database at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := badgerdb.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is noise here

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key, or state.ErrKeyAbsent.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, state.ErrKeyAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Put writes value under key.
func (s *Store) Put(key string, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Badger treats deleting an absent key as success.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Scan snapshots [start, end) in byte order under one read transaction.
func (s *Store) Scan(start, end string) (state.Iterator, error) {
	var keys []string
	var values [][]byte

	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek([]byte(start)); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if end != "" && key >= end {
				break
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			keys = append(keys, key)
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan [%q, %q): %w", start, end, err)
	}
	return state.NewSnapshot(keys, values), nil
}

// Apply applies the batch inside one update transaction.
func (s *Store) Apply(muts []state.Mutation) error {
	if len(muts) == 0 {
		return nil
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		for _, mut := range muts {
			var err error
			if mut.Delete {
				err = txn.Delete([]byte(mut.Key))
			} else {
				err = txn.Set([]byte(mut.Key), mut.Value)
			}
			if err != nil {
				return fmt.Errorf("apply %q: %w", mut.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}
