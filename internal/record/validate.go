package record

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/quaestor-io/quaestor/internal/canon"
)

// Validation error codes (E200-E299).
const (
	ErrFieldMissing   = "E201" // declared field absent
	ErrFieldWrongType = "E202" // field present with wrong type
	ErrKeyEmpty       = "E203" // key field empty
	ErrFieldUnknown   = "E204" // field not declared for the kind
)

// FieldError is one record validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks an object against a kind's declared shape and
// reports every problem in one pass rather than stopping at the
// first.
func Validate(kind *Kind, obj canon.Object) []FieldError {
	var errs []FieldError

	for field, want := range kind.Fields {
		v, ok := obj[field]
		if !ok {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s record requires field %q", kind.Name, field),
				Code:    ErrFieldMissing,
			})
			continue
		}
		if got := FieldType(canon.TypeName(v)); got != want {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("expected %s, got %s", want, got),
				Code:    ErrFieldWrongType,
			})
		}
	}

	for field := range obj {
		if _, ok := kind.Fields[field]; !ok {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("field not declared for %s records", kind.Name),
				Code:    ErrFieldUnknown,
			})
		}
	}

	if key, ok := obj.GetString(kind.KeyField); ok && key == "" {
		errs = append(errs, FieldError{
			Field:   kind.KeyField,
			Message: "key field must be non-empty",
			Code:    ErrKeyEmpty,
		})
	}

	// Field maps iterate in random order; reports must not.
	slices.SortFunc(errs, func(a, b FieldError) int {
		if c := cmp.Compare(a.Field, b.Field); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return errs
}
