package canon

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Marshal produces the canonical byte encoding of a value. This is the
// ONLY serialization that write paths and digests may use.
//
// Properties:
//  1. Object keys sorted by Unicode code-point order at every level
//  2. No incidental whitespace
//  3. Strings NFC normalized, minimally escaped (quote, backslash, and
//     control characters below U+0020 only - no HTML escaping, no
//     U+2028/U+2029 escaping)
//  4. Integers in plain base-10
//
// Two semantically equal values marshal to identical bytes regardless
// of construction order.
func Marshal(v Value) ([]byte, error) {
	buf := make([]byte, 0, 128)
	return appendCanonical(buf, v)
}

func appendCanonical(buf []byte, v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil value cannot be encoded")
	case String:
		return appendCanonicalString(buf, string(val)), nil
	case Int:
		return strconv.AppendInt(buf, int64(val), 10), nil
	case Bool:
		if val {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case Array:
		return appendCanonicalArray(buf, val)
	case Object:
		return appendCanonicalObject(buf, val)
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

const hexDigits = "0123456789abcdef"

// appendCanonicalString encodes one string: NFC normalize, then escape
// only what JSON requires. U+2028 and U+2029 stay literal, as do < > &.
func appendCanonicalString(buf []byte, s string) []byte {
	s = norm.NFC.String(s)

	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c >= 0x20:
			buf = append(buf, c)
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		}
	}
	return append(buf, '"')
}

func appendCanonicalArray(buf []byte, arr Array) ([]byte, error) {
	var err error
	buf = append(buf, '[')
	for i, elem := range arr {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf, err = appendCanonical(buf, elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	return append(buf, ']'), nil
}

func appendCanonicalObject(buf []byte, obj Object) ([]byte, error) {
	var err error
	buf = append(buf, '{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendCanonicalString(buf, k)
		buf = append(buf, ':')
		buf, err = appendCanonical(buf, obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	return append(buf, '}'), nil
}

// MustMarshal is Marshal but panics on error. An encoding failure on a
// well-typed Value is a programming error, so tests and fixed literals
// use this form.
func MustMarshal(v Value) []byte {
	data, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
