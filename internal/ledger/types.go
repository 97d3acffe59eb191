package ledger

import (
	"github.com/quaestor-io/quaestor/internal/canon"
	"github.com/quaestor-io/quaestor/internal/record"
)

// Deployment is an active deployment record. Its world-state key is
// DeploymentID; the record is deleted when the deployment is revoked.
type Deployment struct {
	DeploymentID string `json:"deploymentID"`
	AuthorID     string `json:"authorID"`
	Comment      string `json:"comment"`
	Payload      string `json:"payload"`
}

// Object converts the deployment to its canonical record form.
func (d Deployment) Object() canon.Object {
	return canon.NewObject(
		canon.F("deploymentID", canon.String(d.DeploymentID)),
		canon.F("authorID", canon.String(d.AuthorID)),
		canon.F("comment", canon.String(d.Comment)),
		canon.F("payload", canon.String(d.Payload)),
	)
}

// Revocation is the immutable tombstone written when a deployment is
// revoked. Its world-state key is RevocationID, which is generated,
// never caller-supplied.
type Revocation struct {
	RevocationID       string `json:"revocationID"`
	TargetDeploymentID string `json:"targetDeploymentID"`
	Reason             string `json:"reason"`
}

// Object converts the revocation to its canonical record form.
func (r Revocation) Object() canon.Object {
	return canon.NewObject(
		canon.F("revocationID", canon.String(r.RevocationID)),
		canon.F("targetDeploymentID", canon.String(r.TargetDeploymentID)),
		canon.F("reason", canon.String(r.Reason)),
	)
}

// LogEntry is an append-only audit record. Its world-state key is
// TransactionID. Time is stored as an RFC 3339 UTC string so entries
// replay to identical bytes.
type LogEntry struct {
	TransactionID string `json:"transactionID"`
	AuthorID      string `json:"authorID"`
	Time          string `json:"time"`
	Description   string `json:"description"`
}

// Object converts the log entry to its canonical record form.
func (e LogEntry) Object() canon.Object {
	return canon.NewObject(
		canon.F("transactionID", canon.String(e.TransactionID)),
		canon.F("authorID", canon.String(e.AuthorID)),
		canon.F("time", canon.String(e.Time)),
		canon.F("description", canon.String(e.Description)),
	)
}

// deploymentFromObject rebuilds a Deployment from a stored record.
// Field presence and types were validated on write, so a miss here
// means the value was written outside the ledger.
func deploymentFromObject(obj canon.Object) (Deployment, bool) {
	var d Deployment
	var ok bool
	if d.DeploymentID, ok = obj.GetString(record.Deployment.KeyField); !ok {
		return Deployment{}, false
	}
	d.AuthorID, _ = obj.GetString("authorID")
	d.Comment, _ = obj.GetString("comment")
	d.Payload, _ = obj.GetString("payload")
	return d, true
}

func revocationFromObject(obj canon.Object) (Revocation, bool) {
	var r Revocation
	var ok bool
	if r.RevocationID, ok = obj.GetString(record.Revocation.KeyField); !ok {
		return Revocation{}, false
	}
	r.TargetDeploymentID, _ = obj.GetString("targetDeploymentID")
	r.Reason, _ = obj.GetString("reason")
	return r, true
}

func logEntryFromObject(obj canon.Object) (LogEntry, bool) {
	var e LogEntry
	var ok bool
	if e.TransactionID, ok = obj.GetString(record.TransactionLog.KeyField); !ok {
		return LogEntry{}, false
	}
	e.AuthorID, _ = obj.GetString("authorID")
	e.Time, _ = obj.GetString("time")
	e.Description, _ = obj.GetString("description")
	return e, true
}
