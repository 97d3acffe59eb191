package canon

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
)

// Domain prefixes for digest computation. The version suffix enables
// future algorithm migration without colliding with old digests.
const (
	DomainRecord = "quaestor/record/v1"
	DomainState  = "quaestor/state/v1"
)

// Digest computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordDigest computes the digest of one record's canonical bytes.
// Stable across replicas given the same logical record.
func RecordDigest(obj Object) (string, error) {
	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("record digest: %w", err)
	}
	return Digest(DomainRecord, data), nil
}

// StateHasher accumulates (key, value) pairs into a full-state digest.
// Pairs must be added in substrate scan order - every replica scans in
// the same order, so every replica derives the same digest.
//
// Each pair is framed as len(key) || key || len(value) || value with
// 8-byte big-endian lengths, so key/value boundaries cannot alias.
type StateHasher struct {
	h hash.Hash
}

// NewStateHasher creates a StateHasher seeded with the state domain.
func NewStateHasher() *StateHasher {
	h := sha256.New()
	h.Write([]byte(DomainState))
	h.Write([]byte{0x00})
	return &StateHasher{h: h}
}

// Add frames one key/value pair into the digest.
func (sh *StateHasher) Add(key string, value []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(key)))
	sh.h.Write(n[:])
	sh.h.Write([]byte(key))
	binary.BigEndian.PutUint64(n[:], uint64(len(value)))
	sh.h.Write(n[:])
	sh.h.Write(value)
}

// Sum returns the hex digest of everything added so far.
func (sh *StateHasher) Sum() string {
	return hex.EncodeToString(sh.h.Sum(nil))
}
