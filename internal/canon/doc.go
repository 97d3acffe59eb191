// Package canon provides the canonical value model and deterministic
// encoding for quaestor world-state records.
//
// This package contains the encoding layer only. All other internal
// packages import canon; canon imports nothing internal, so it remains
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - NO null values - absent means absent
//   - Object keys sort in Unicode code-point order at every nesting level
//   - Strings are NFC normalized at the serialization boundary
//   - Two semantically equal records always encode to identical bytes
package canon
