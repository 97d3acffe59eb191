package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quaestor-io/quaestor/internal/canon"
	"github.com/quaestor-io/quaestor/internal/record"
	"github.com/quaestor-io/quaestor/internal/state"
)

// maxIDAttempts bounds how many candidates the revocation ID source
// may produce for a single revocation before the operation fails.
const maxIDAttempts = 5

// Ledger implements the replicated record operations over a
// key-value substrate.
//
// Every operation runs against a state.KV view supplied by the
// caller, normally a *state.WriteSet over the ledger's store. The
// operation stages reads and writes on that view and the caller
// commits on success or discards on error, so a failed operation
// leaves no partial state.
//
// The Ledger itself holds no mutable state beyond its store handle
// and identifier sources; it is safe for concurrent use as long as
// each unit of work has its own WriteSet.
type Ledger struct {
	store  state.Store
	txIDs  TokenSource
	revIDs TokenSource
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithTransactionIDs overrides the transaction ID source. Tests and
// scenario replay use a FixedSource here.
func WithTransactionIDs(src TokenSource) Option {
	return func(l *Ledger) { l.txIDs = src }
}

// WithRevocationIDs overrides the revocation ID source.
func WithRevocationIDs(src TokenSource) Option {
	return func(l *Ledger) { l.revIDs = src }
}

// New creates a Ledger over store. Both identifier sources default
// to UUIDv7.
func New(store state.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		txIDs:  UUIDv7Source{},
		revIDs: UUIDv7Source{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Begin opens a fresh unit of work over the ledger's store.
func (l *Ledger) Begin() *state.WriteSet {
	return state.NewWriteSet(l.store)
}

// NewTx mints a transaction context for one unit of work, stamped
// with now normalized to UTC.
func (l *Ledger) NewTx(now time.Time) TxContext {
	return NewTxContext(l.txIDs.Generate(), now)
}

// InitLedger records that the ledger was brought up by appending one
// transaction log entry keyed by the transaction ID. Re-running it
// with a fresh transaction appends a fresh entry.
func (l *Ledger) InitLedger(tx TxContext, kv state.KV) (LogEntry, error) {
	const op = "InitLedger"
	entry := LogEntry{
		TransactionID: tx.ID,
		AuthorID:      "system",
		Time:          recordTime(tx),
		Description:   "ledger initialized",
	}
	if err := l.appendLog(op, kv, entry); err != nil {
		return LogEntry{}, err
	}
	slog.Info("ledger initialized", "tx_id", tx.ID)
	return entry, nil
}

// CreateDeployment writes a new deployment record and one transaction
// log entry describing the creation. It fails with ALREADY_EXISTS when
// the deployment ID is already a key in the world state.
func (l *Ledger) CreateDeployment(tx TxContext, kv state.KV, authorID, comment, payload, deploymentID string) (Deployment, error) {
	const op = "CreateDeployment"
	if !validIdentifier(deploymentID) {
		return Deployment{}, NewInvalidArgument(op, fmt.Sprintf("deployment id %q is not a valid identifier", deploymentID))
	}
	exists, err := record.Exists(kv, deploymentID)
	if err != nil {
		return Deployment{}, NewInternal(op, err.Error())
	}
	if exists {
		return Deployment{}, NewAlreadyExists(op, deploymentID, fmt.Sprintf("deployment %s already exists", deploymentID))
	}

	dep := Deployment{
		DeploymentID: deploymentID,
		AuthorID:     authorID,
		Comment:      comment,
		Payload:      payload,
	}
	if err := l.putRecord(op, kv, record.Deployment, deploymentID, dep.Object()); err != nil {
		return Deployment{}, err
	}
	if err := l.appendLog(op, kv, LogEntry{
		TransactionID: tx.ID,
		AuthorID:      authorID,
		Time:          recordTime(tx),
		Description:   fmt.Sprintf("deployment %s created", deploymentID),
	}); err != nil {
		return Deployment{}, err
	}

	slog.Info("deployment created", "deployment_id", deploymentID, "tx_id", tx.ID)
	return dep, nil
}

// ReadDeployment returns the deployment stored under deploymentID.
func (l *Ledger) ReadDeployment(kv state.KV, deploymentID string) (Deployment, error) {
	const op = "ReadDeployment"
	obj, err := record.Get(kv, deploymentID)
	if err != nil {
		return Deployment{}, mapRecordErr(op, deploymentID, err,
			fmt.Sprintf("deployment %s does not exist", deploymentID))
	}
	dep, ok := deploymentFromObject(obj)
	if !ok {
		return Deployment{}, NewMalformed(op, deploymentID,
			fmt.Sprintf("record %s exists but is not a deployment", deploymentID))
	}
	return dep, nil
}

// DeploymentExists reports raw key presence under deploymentID. A
// non-deployment record under the same key still counts as present;
// presence is kind-agnostic because the keyspace is shared.
func (l *Ledger) DeploymentExists(kv state.KV, deploymentID string) (bool, error) {
	exists, err := record.Exists(kv, deploymentID)
	if err != nil {
		return false, NewInternal("DeploymentExists", err.Error())
	}
	return exists, nil
}

// DeleteDeployment removes the deployment record. It exists as the
// terminal step of revocation; nothing else deletes deployments.
func (l *Ledger) DeleteDeployment(kv state.KV, deploymentID string) error {
	const op = "DeleteDeployment"
	exists, err := record.Exists(kv, deploymentID)
	if err != nil {
		return NewInternal(op, err.Error())
	}
	if !exists {
		return NewNotFound(op, deploymentID, fmt.Sprintf("deployment %s does not exist", deploymentID))
	}
	if err := record.Delete(kv, deploymentID); err != nil {
		return NewInternal(op, err.Error())
	}
	return nil
}

// Revoke retires a deployment. The steps run in a fixed order:
// existence check, revocation ID generation, transaction log append,
// revocation record write, deployment delete. All writes stage into
// the caller's view, so the audit entry, the tombstone, and the
// delete commit together or not at all.
func (l *Ledger) Revoke(tx TxContext, kv state.KV, deploymentID, reason, authorID string) (Revocation, error) {
	const op = "Revoke"
	exists, err := record.Exists(kv, deploymentID)
	if err != nil {
		return Revocation{}, NewInternal(op, err.Error())
	}
	if !exists {
		return Revocation{}, NewNotFound(op, deploymentID,
			fmt.Sprintf("cannot revoke deployment %s: does not exist, or already has been revoked", deploymentID))
	}

	revID, err := l.nextRevocationID(kv)
	if err != nil {
		return Revocation{}, err
	}

	if err := l.appendLog(op, kv, LogEntry{
		TransactionID: tx.ID,
		AuthorID:      authorID,
		Time:          recordTime(tx),
		Description:   fmt.Sprintf("deployment %s revoked: %s", deploymentID, reason),
	}); err != nil {
		return Revocation{}, err
	}

	rev := Revocation{
		RevocationID:       revID,
		TargetDeploymentID: deploymentID,
		Reason:             reason,
	}
	if err := l.putRecord(op, kv, record.Revocation, revID, rev.Object()); err != nil {
		return Revocation{}, err
	}

	if err := record.Delete(kv, deploymentID); err != nil {
		return Revocation{}, NewInternal(op, err.Error())
	}

	slog.Info("deployment revoked",
		"deployment_id", deploymentID,
		"revocation_id", revID,
		"tx_id", tx.ID)
	return rev, nil
}

// AppendLog writes one audit entry under the caller-supplied id. The
// timestamp is stored verbatim; callers that want replayable bytes
// pass RFC 3339 UTC.
func (l *Ledger) AppendLog(kv state.KV, id, authorID, timestamp, description string) (LogEntry, error) {
	const op = "AppendLog"
	entry := LogEntry{
		TransactionID: id,
		AuthorID:      authorID,
		Time:          timestamp,
		Description:   description,
	}
	if err := l.appendLog(op, kv, entry); err != nil {
		return LogEntry{}, err
	}
	return entry, nil
}

// ReadLog returns the audit entry stored under id.
func (l *Ledger) ReadLog(kv state.KV, id string) (LogEntry, error) {
	const op = "ReadLog"
	obj, err := record.Get(kv, id)
	if err != nil {
		return LogEntry{}, mapRecordErr(op, id, err,
			fmt.Sprintf("transaction log entry %s does not exist", id))
	}
	entry, ok := logEntryFromObject(obj)
	if !ok {
		return LogEntry{}, NewMalformed(op, id,
			fmt.Sprintf("record %s exists but is not a transaction log entry", id))
	}
	return entry, nil
}

// ListAllDeployments scans the full keyspace and returns every record
// shaped like a deployment, in the substrate's key order. Key order is
// not creation order.
func (l *Ledger) ListAllDeployments(kv state.KV) ([]Deployment, error) {
	objs, err := record.List(kv, record.Deployment)
	if err != nil {
		return nil, NewInternal("GetAllDeployments", err.Error())
	}
	out := make([]Deployment, 0, len(objs))
	for _, obj := range objs {
		d, _ := deploymentFromObject(obj)
		out = append(out, d)
	}
	return out, nil
}

// ListAllRevocations scans the full keyspace and returns every
// revocation tombstone, in the substrate's key order.
func (l *Ledger) ListAllRevocations(kv state.KV) ([]Revocation, error) {
	objs, err := record.List(kv, record.Revocation)
	if err != nil {
		return nil, NewInternal("GetAllRevocations", err.Error())
	}
	out := make([]Revocation, 0, len(objs))
	for _, obj := range objs {
		r, _ := revocationFromObject(obj)
		out = append(out, r)
	}
	return out, nil
}

// ListAllLogs scans the full keyspace and returns every audit entry,
// in the substrate's key order.
func (l *Ledger) ListAllLogs(kv state.KV) ([]LogEntry, error) {
	objs, err := record.List(kv, record.TransactionLog)
	if err != nil {
		return nil, NewInternal("GetAllLogs", err.Error())
	}
	out := make([]LogEntry, 0, len(objs))
	for _, obj := range objs {
		e, _ := logEntryFromObject(obj)
		out = append(out, e)
	}
	return out, nil
}

// StateDigest folds every key/value pair in the view, in key order,
// into a single hex digest. Two replicas holding the same records
// produce the same digest regardless of backend.
func (l *Ledger) StateDigest(kv state.KV) (string, error) {
	const op = "StateDigest"
	it, err := kv.Scan("", "")
	if err != nil {
		return "", NewInternal(op, err.Error())
	}
	defer it.Close()

	h := canon.NewStateHasher()
	for it.Next() {
		h.Add(it.Key(), it.Value())
	}
	if err := it.Err(); err != nil {
		return "", NewInternal(op, err.Error())
	}
	return h.Sum(), nil
}

// nextRevocationID draws candidates from the revocation source until
// one is both well-formed and unused. UUIDv7 candidates never collide
// in practice; the retry loop exists for scripted sources and for the
// shared keyspace, where any record kind can occupy a candidate key.
func (l *Ledger) nextRevocationID(kv state.KV) (string, error) {
	const op = "Revoke"
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		candidate := l.revIDs.Generate()
		if !validIdentifier(candidate) {
			slog.Warn("revocation id candidate rejected",
				"revocation_id", candidate, "attempt", attempt)
			continue
		}
		taken, err := record.Exists(kv, candidate)
		if err != nil {
			return "", NewInternal(op, err.Error())
		}
		if !taken {
			return candidate, nil
		}
		slog.Warn("revocation id collision",
			"revocation_id", candidate, "attempt", attempt)
	}
	return "", NewInternal(op,
		fmt.Sprintf("could not produce an unused revocation id in %d attempts", maxIDAttempts))
}

// appendLog stages one log entry, guarding the id against reuse. op
// names the operation the entry belongs to so errors point at the
// caller, not at the helper.
func (l *Ledger) appendLog(op string, kv state.KV, entry LogEntry) error {
	if !validIdentifier(entry.TransactionID) {
		return NewInvalidArgument(op, fmt.Sprintf("transaction id %q is not a valid identifier", entry.TransactionID))
	}
	taken, err := record.Exists(kv, entry.TransactionID)
	if err != nil {
		return NewInternal(op, err.Error())
	}
	if taken {
		return NewAlreadyExists(op, entry.TransactionID,
			fmt.Sprintf("transaction log entry %s already exists", entry.TransactionID))
	}
	return l.putRecord(op, kv, record.TransactionLog, entry.TransactionID, entry.Object())
}

// putRecord validates obj against its kind descriptor and stages the
// canonical bytes. A validation miss here means the Go structs and
// the kind schema have drifted apart, so it surfaces as INTERNAL.
func (l *Ledger) putRecord(op string, kv state.KV, kind *record.Kind, key string, obj canon.Object) error {
	if errs := record.Validate(kind, obj); len(errs) > 0 {
		return NewInternal(op, fmt.Sprintf("%s record for %s failed validation: %v", kind.Name, key, errs[0]))
	}
	if err := record.Put(kv, key, obj); err != nil {
		return NewInternal(op, err.Error())
	}
	return nil
}

// recordTime is the timestamp format stored in log entries.
func recordTime(tx TxContext) string {
	return tx.Timestamp.UTC().Format(time.RFC3339)
}

// mapRecordErr translates record layer sentinels into the ledger
// taxonomy, substituting notFound as the NOT_FOUND message so the
// error names the attempted action.
func mapRecordErr(op, key string, err error, notFound string) error {
	switch {
	case errors.Is(err, record.ErrNotFound):
		return NewNotFound(op, key, notFound)
	case errors.Is(err, record.ErrMalformed):
		return NewMalformed(op, key, err.Error())
	default:
		return NewInternal(op, err.Error())
	}
}
