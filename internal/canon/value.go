package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Value is a sealed interface over the constrained record value types.
// Only String, Int, Bool, Array, and Object implement it. There is no
// float variant (floats do not round-trip deterministically across
// platforms) and no null variant (a field is either present or absent).
type Value interface {
	value() // sealed
}

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values. Element order is significant and
// preserved by the canonical encoding.
type Array []Value

func (Array) value() {}

// Object is a mapping of field names to values. Use SortedKeys for
// deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// NewString creates a String value.
func NewString(s string) String { return String(s) }

// NewInt creates an Int value.
func NewInt(n int64) Int { return Int(n) }

// NewBool creates a Bool value.
func NewBool(b bool) Bool { return Bool(b) }

// NewArray creates an Array from values.
func NewArray(vals ...Value) Array { return Array(vals) }

// Pair is a key-value pair for typed Object construction. Going through
// Pair keeps floats out at compile time.
type Pair struct {
	Key string
	Val Value
}

// F is a shorthand Pair constructor.
// Example: NewObject(F("deploymentID", NewString("D1")), F("count", NewInt(3)))
func F(key string, val Value) Pair {
	return Pair{Key: key, Val: val}
}

// NewObject creates an Object from typed key-value pairs.
func NewObject(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Val
	}
	return obj
}

// SortedKeys returns the object's keys in Unicode code-point order.
// For valid UTF-8 strings, Go's native byte-wise string comparison IS
// code-point order, so a plain sort suffices.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether the object carries the field.
func (obj Object) Has(key string) bool {
	_, ok := obj[key]
	return ok
}

// GetString returns the field as a string. The second return is false
// when the field is absent or not a String.
func (obj Object) GetString(key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// GetInt returns the field as an int64. The second return is false when
// the field is absent or not an Int.
func (obj Object) GetInt(key string) (int64, bool) {
	v, ok := obj[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(Int)
	return int64(n), ok
}

// Unmarshal parses JSON bytes into a Value with strict validation:
// floats and nulls are rejected at every nesting level, as is any
// trailing content after the value.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing content after value")
	}
	return fromAny(raw)
}

// UnmarshalObject is Unmarshal restricted to a top-level object, the
// shape every stored record has.
func UnmarshalObject(data []byte) (Object, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("value is %s, not an object", TypeName(v))
	}
	return obj, nil
}

// fromAny recursively converts a decoded JSON value, rejecting null and
// floats.
func fromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden: only string, int, bool, array, object allowed")
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			cv, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// TypeName returns a short human-readable name for a Value's variant,
// used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
