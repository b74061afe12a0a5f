package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Basic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"object slice", []map[string]any{{"a": 1}}, `[{"a":1}]`},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshal_SortedKeys(t *testing.T) {
	obj := map[string]any{
		"name":  "Cache.Store",
		"count": 2,
		"calls": []any{map[string]any{"output": "k", "input": `("v")`}},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"calls":[{"input":"(\"v\")","output":"k"}],"count":2,"name":"Cache.Store"}`, string(result))
}

func TestMarshal_UTF16Ordering(t *testing.T) {
	// UTF-16: U+10000 encodes as 0xD800 0xDC00, which sorts before 0xE000
	obj := map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshal_NoHTMLEscape(t *testing.T) {
	result, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(result))
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9
	result, err := Marshal("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(result))
}

func TestMarshal_LineSeparators(t *testing.T) {
	result, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by the text u2028 stays escaped
	result, err = Marshal(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestMarshal_Forbidden(t *testing.T) {
	for name, v := range map[string]any{
		"null":        nil,
		"float":       1.5,
		"nested null": map[string]any{"a": nil},
		"struct":      struct{}{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Marshal(v)
			assert.Error(t, err)
		})
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	obj := map[string]any{"b": 1, "a": 2, "c": []any{"x", 3}}

	first, err := Marshal(obj)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Marshal(obj)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
