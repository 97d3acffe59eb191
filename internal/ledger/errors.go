package ledger

import (
	"errors"
	"fmt"
)

// Error represents a failure of a ledger operation.
//
// Ledger errors include:
//   - Not found: a read or revoke names a key that holds no record
//   - Already exists: a create names a key that already holds one
//   - Malformed: a stored value does not decode as a record object
//   - Invalid argument: an operation received unusable input
//   - Internal: the substrate failed or an identifier could not be issued
//
// Error includes structured fields so boundaries can map failures
// without parsing message text.
type Error struct {
	// Code is the machine-readable category.
	Code ErrorCode

	// Message is a human-readable description naming the offending
	// identifier and the attempted action.
	Message string

	// Key is the world-state key involved, when one is known.
	Key string

	// Op is the ledger operation that failed.
	Op string
}

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// CodeNotFound indicates the named record does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the named record already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeMalformed indicates a stored value failed to decode.
	CodeMalformed ErrorCode = "MALFORMED"

	// CodeInvalidArgument indicates the caller supplied unusable input.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeInternal indicates a substrate or identifier failure.
	CodeInternal ErrorCode = "INTERNAL"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" && e.Key != "" {
		return fmt.Sprintf("%s: %s (op=%s, key=%s)", e.Code, e.Message, e.Op, e.Key)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err. Errors that did not
// originate as a ledger Error report CodeInternal.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err, anywhere along its chain, is a
// ledger Error with code NOT_FOUND.
func IsNotFound(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == CodeNotFound
	}
	return false
}

// IsAlreadyExists reports whether err carries code ALREADY_EXISTS,
// unwrapping as needed.
func IsAlreadyExists(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == CodeAlreadyExists
	}
	return false
}

// IsMalformed reports whether err carries code MALFORMED, unwrapping
// as needed.
func IsMalformed(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == CodeMalformed
	}
	return false
}

// IsInvalidArgument reports whether err carries code INVALID_ARGUMENT,
// unwrapping as needed.
func IsInvalidArgument(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == CodeInvalidArgument
	}
	return false
}

// NewNotFound creates an Error for a missing record.
func NewNotFound(op, key, message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Key: key, Op: op}
}

// NewAlreadyExists creates an Error for a create that hit an
// occupied key.
func NewAlreadyExists(op, key, message string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: message, Key: key, Op: op}
}

// NewMalformed creates an Error for a value that failed to decode.
func NewMalformed(op, key, message string) *Error {
	return &Error{Code: CodeMalformed, Message: message, Key: key, Op: op}
}

// NewInvalidArgument creates an Error for unusable caller input.
func NewInvalidArgument(op, message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message, Op: op}
}

// NewInternal creates an Error for a substrate or identifier failure.
func NewInternal(op, message string) *Error {
	return &Error{Code: CodeInternal, Message: message, Op: op}
}
