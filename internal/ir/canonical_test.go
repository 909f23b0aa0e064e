package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", -100, "-100"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array of ints", []int{1, 2, 3}, "[1,2,3]"},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"b": 1, "a": 2},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"a":2,"b":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000: UTF-16 order differs from UTF-8
	obj := map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// UTF-16: 0xD800 (surrogate) < 0xE000, so U+10000 comes first
	expected := "{\"\U00010000\":2,\"\uE000\":1}"
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{"ty": "Account<'info, Mint>", "amp": "a & b"})
	require.NoError(t, err)

	assert.Equal(t, `{"amp":"a & b","ty":"Account<'info, Mint>"}`, string(result))
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonicalRejectsTopLevelNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalCanonicalDropsNullMembers(t *testing.T) {
	var missing *string
	result, err := MarshalCanonical(map[string]any{"a": 1, "b": missing})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(result))
}

func TestMarshalCanonicalRejectsNullInArray(t *testing.T) {
	_, err := MarshalCanonical([]any{1, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[1]")
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	r1, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	r2, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(r2), string(r1))
}

func TestMarshalCanonicalU2028U2029NotEscaped(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshalCanonicalLiteralBackslashU2028(t *testing.T) {
	// Literal backslash followed by "u2028" text must stay escaped.
	result, err := MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestMarshalCanonicalNormalizedProgram(t *testing.T) {
	np := NewNormalizedProgram("hello_world", "hello_world")
	np.Modules = append(np.Modules, NormalizedModule{
		Name: "hello_world",
		Instructions: []NormalizedInstruction{{
			Name:       "initialize",
			Visibility: "pub",
			Parameters: []Parameter{{Name: "ctx", Type: "Context<Initialize>", IsContext: true}},
			Body:       UnknownBody(),
		}},
	})

	result, err := MarshalCanonical(np)
	require.NoError(t, err)
	assert.Contains(t, string(result), `"body":{"kind":"unknown"}`)
	assert.Contains(t, string(result), `"schema_version":"1.0"`)
	assert.NotContains(t, string(result), "source_info")
}
