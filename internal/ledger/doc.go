// Package ledger implements the quaestor record operations.
//
// The ledger is the heart of quaestor - it owns the deployment
// registry, the revocation workflow, and the append-only transaction
// log, all sharing one key-value world state.
//
// ARCHITECTURE:
//
// Unit of Work:
// Every operation runs to completion against a single state.KV view,
// normally a *state.WriteSet opened with Begin(). Reads within the
// view observe the view's own staged writes; nothing reaches the
// substrate until the caller commits. This gives each operation
// all-or-nothing semantics without locks:
//  1. Boundary opens a WriteSet and mints a TxContext
//  2. Operation stages reads and writes on the WriteSet
//  3. On success the boundary commits (one atomic Apply)
//  4. On error the boundary discards; the substrate never saw it
//
// Cross-operation isolation is delegated to the caller: operations
// never assume a read reflects another uncommitted unit of work, and
// no write depends on an earlier read remaining valid beyond simple
// existence checks.
//
// Shared Keyspace:
// Deployments, revocations, and log entries share one keyspace, keyed
// by their identifying field. Kind is recovered from value shape, not
// from the key, so existence checks are kind-agnostic and generated
// revocation IDs must avoid every live key.
//
// Determinism:
// Record bytes are canonical (sorted keys, NFC, no floats), times are
// RFC 3339 UTC from the TxContext, and identifiers come from
// injectable sources. Replaying the same operations with the same
// TxContexts and scripted identifiers yields byte-identical state on
// every backend, which StateDigest can confirm.
package ledger
