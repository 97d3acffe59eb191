// Package state defines the key-value substrate boundary and the
// write-set overlay that gives each logical operation unit-of-work
// atomicity.
//
// The substrate contract is narrow: point get/put/delete plus an
// ordered range scan. Every backend (memory, sqlite, badger, bolt)
// yields scan keys in ascending byte order; that order is the
// substrate's native order, NOT creation order.
//
// A WriteSet stages all mutations of one operation and answers reads
// through the overlay, so an operation observes its own writes before
// commit while the substrate observes nothing until Commit applies the
// whole staged set atomically.
package state
