package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"max int64", Int(9223372036854775807), "9223372036854775807"},
		{"min int64", Int(-9223372036854775808), "-9223372036854775808"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of ints", Array{Int(1), Int(2), Int(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
		{"nested array order kept", Array{Int(3), Int(1), Int(2)}, "[3,1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{
			"b": Int(1),
			"a": Int(2),
		},
		"a": Int(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCodePointOrdering(t *testing.T) {
	// U+E000 vs U+10000: code-point order puts U+E000 first. (UTF-16
	// ordering would reverse this pair because of surrogates; keys here
	// sort by code point.)
	obj := Object{
		"": Int(1),
		"𐀀":      Int(2), // U+10000
	}

	result, err := Marshal(obj)
	require.NoError(t, err)

	expected := `{"` + "" + `":1,"𐀀":2}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"less than", String("<script>"), `"<script>"`},
		{"greater than", String("</script>"), `"</script>"`},
		{"ampersand", String("a&b"), `"a&b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalStringEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"backspace", "a\bb", `"a\bb"`},
		{"form feed", "a\fb", `"a\fb"`},
		{"nul", "a\x00b", `"a\u0000b"`},
		{"unit separator", "a\x1fb", `"a\u001fb"`},
		{"line separator stays literal", "a b", "\"a b\""},
		{"paragraph separator stays literal", "a b", "\"a b\""},
		{"multibyte passthrough", "héllo wörld", `"héllo wörld"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalNFCNormalization(t *testing.T) {
	// "é" composed (U+00E9) vs decomposed (U+0065 U+0301) must encode
	// to the same bytes.
	composed := String("é")
	decomposed := String("é")

	a, err := Marshal(composed)
	require.NoError(t, err)
	b, err := Marshal(decomposed)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.Equal(t, "\"é\"", string(a))
}

func TestMarshalInsertionOrderIrrelevant(t *testing.T) {
	// The same logical record built in different orders and parsed from
	// differently ordered JSON texts must encode identically.
	built := NewObject(
		F("deploymentID", NewString("D1")),
		F("authorID", NewString("A1")),
		F("comment", NewString("hello")),
		F("payload", NewString("payload")),
	)
	reversed := NewObject(
		F("payload", NewString("payload")),
		F("comment", NewString("hello")),
		F("authorID", NewString("A1")),
		F("deploymentID", NewString("D1")),
	)

	fromJSONa, err := Unmarshal([]byte(`{"payload":"payload","deploymentID":"D1","comment":"hello","authorID":"A1"}`))
	require.NoError(t, err)
	fromJSONb, err := Unmarshal([]byte(`{"comment":"hello","payload":"payload","authorID":"A1","deploymentID":"D1"}`))
	require.NoError(t, err)

	want := `{"authorID":"A1","comment":"hello","deploymentID":"D1","payload":"payload"}`
	for _, v := range []Value{built, reversed, fromJSONa, fromJSONb} {
		got, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestMarshalNestedPermutations(t *testing.T) {
	texts := []string{
		`{"outer":{"b":[1,2],"a":true},"id":"x"}`,
		`{"id":"x","outer":{"a":true,"b":[1,2]}}`,
	}

	want := `{"id":"x","outer":{"a":true,"b":[1,2]}}`
	for _, text := range texts {
		v, err := Unmarshal([]byte(text))
		require.NoError(t, err)
		got, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestMarshalNilValue(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)

	_, err = Marshal(Object{"a": nil})
	assert.Error(t, err)
}

func TestMustMarshalPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustMarshal(Object{"a": nil})
	})
	assert.NotPanics(t, func() {
		MustMarshal(Object{"a": Int(1)})
	})
}
