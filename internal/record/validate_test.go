package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestor-io/quaestor/internal/canon"
)

func validDeployment() canon.Object {
	return canon.NewObject(
		canon.F("deploymentID", canon.NewString("D1")),
		canon.F("authorID", canon.NewString("A1")),
		canon.F("comment", canon.NewString("hello")),
		canon.F("payload", canon.NewString("payload")),
	)
}

func TestValidateAccepts(t *testing.T) {
	assert.Empty(t, Validate(Deployment, validDeployment()))

	logEntry := canon.NewObject(
		canon.F("transactionID", canon.NewString("tx-1")),
		canon.F("authorID", canon.NewString("A1")),
		canon.F("time", canon.NewString("2024-01-15T10:00:00Z")),
		canon.F("description", canon.NewString("deployment D1 created")),
	)
	assert.Empty(t, Validate(TransactionLog, logEntry))
}

func TestValidateMissingField(t *testing.T) {
	obj := validDeployment()
	delete(obj, "payload")

	errs := Validate(Deployment, obj)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrFieldMissing, errs[0].Code)
	assert.Equal(t, "payload", errs[0].Field)
}

func TestValidateWrongType(t *testing.T) {
	obj := validDeployment()
	obj["comment"] = canon.NewInt(42)

	errs := Validate(Deployment, obj)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrFieldWrongType, errs[0].Code)
	assert.Equal(t, "comment", errs[0].Field)
}

func TestValidateUnknownField(t *testing.T) {
	obj := validDeployment()
	obj["extra"] = canon.NewString("surprise")

	errs := Validate(Deployment, obj)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrFieldUnknown, errs[0].Code)
	assert.Equal(t, "extra", errs[0].Field)
}

func TestValidateEmptyKey(t *testing.T) {
	obj := validDeployment()
	obj["deploymentID"] = canon.NewString("")

	errs := Validate(Deployment, obj)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrKeyEmpty, errs[0].Code)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	obj := canon.NewObject(
		canon.F("deploymentID", canon.NewInt(1)),  // wrong type
		canon.F("authorID", canon.NewString("A")), // ok
		canon.F("extra", canon.NewBool(true)),     // unknown
	)
	// comment and payload missing on top.

	errs := Validate(Deployment, obj)
	assert.Len(t, errs, 4, "validation must not fail-fast")

	codes := make(map[string]int)
	for _, e := range errs {
		codes[e.Code]++
	}
	assert.Equal(t, 2, codes[ErrFieldMissing])
	assert.Equal(t, 1, codes[ErrFieldWrongType])
	assert.Equal(t, 1, codes[ErrFieldUnknown])
}

func TestFieldErrorString(t *testing.T) {
	e := FieldError{Field: "payload", Message: "Deployment record requires field \"payload\"", Code: ErrFieldMissing}
	assert.Equal(t, `[E201] payload: Deployment record requires field "payload"`, e.Error())
}
