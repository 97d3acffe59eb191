// Package bolt provides the bbolt-backed state store.
//
// All state lives in one bucket; cursor scans walk it in byte order,
// materialized into a snapshot because bolt values are only valid
// inside the transaction that read them.
package bolt

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/quaestor-io/quaestor/internal/state"
)

const stateBucket = "world_state"

// Store is a state.Store backed by a bbolt database file.
type Store struct {
	db *bbolt.DB
}

var _ state.Store = (*Store)(nil)

// Open creates or opens a bbolt database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBucket(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value for key, or state.ErrKeyAbsent.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return state.ErrKeyAbsent
		}
		value = slices.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put writes value under key.
func (s *Store) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key. Bolt treats deleting an absent key as success.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// Scan snapshots [start, end) in byte order with a cursor.
func (s *Store) Scan(start, end string) (state.Iterator, error) {
	var keys []string
	var values [][]byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}

		c := bucket.Cursor()
		k, v := c.First()
		if start != "" {
			k, v = c.Seek([]byte(start))
		}
		for ; k != nil; k, v = c.Next() {
			key := string(k)
			if end != "" && key >= end {
				break
			}
			keys = append(keys, key)
			values = append(values, slices.Clone(v))
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		for _, mut := range muts {
			var err error
			if mut.Delete {
				err = bucket.Delete([]byte(mut.Key))
			} else {
				err = bucket.Put([]byte(mut.Key), mut.Value)
			}
			if err != nil {
				return fmt.Errorf("apply %q: %w", mut.Key, err)
			}
		}
		return nil
	})
}

func (s *Store) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(stateBucket)); err != nil {
			return fmt.Errorf("create state bucket: %w", err)
		}
		return nil
	})
}
