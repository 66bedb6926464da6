package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Compile-time check via assignment
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := Object{
		"a":  Int(1),
		"A":  Int(2),
		"aa": Int(3),
		"aA": Int(4),
		"Aa": Int(5),
		"AA": Int(6),
	}

	// 'A' = 65, 'a' = 97
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestObjectSortedKeysSurrogatePairs(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FF61
	// in UTF-16 but after it in UTF-8.
	obj := Object{
		"\U0001F600": Int(1),
		"\uFF61":     Int(2),
	}

	assert.Equal(t, []string{"\U0001F600", "\uFF61"}, obj.SortedKeys())
}

func TestUnmarshalValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"string", `"hello"`, String("hello")},
		{"int", `42`, Int(42)},
		{"negative int", `-7`, Int(-7)},
		{"float", `1.5`, Float(1.5)},
		{"exponent", `1e3`, Float(1000)},
		{"bool", `true`, Bool(true)},
		{"null", `null`, Null{}},
		{"array", `[1,"a"]`, Array{Int(1), String("a")}},
		{"object", `{"k":[true]}`, Object{"k": Array{Bool(true)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := UnmarshalValue([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestUnmarshalValueInvalid(t *testing.T) {
	_, err := UnmarshalValue([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestFromGo(t *testing.T) {
	v, err := FromGo(map[string]any{
		"n":    3,
		"f":    float64(2),
		"half": 0.5,
		"list": []any{"x", nil, true},
	})
	require.NoError(t, err)

	assert.Equal(t, Object{
		"n":    Int(3),
		"f":    Float(2),
		"half": Float(0.5),
		"list": Array{String("x"), Null{}, Bool(true)},
	}, v)
}

func TestFromGoUnsupported(t *testing.T) {
	_, err := FromGo(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestToGoRoundTrip(t *testing.T) {
	orig := Object{
		"s": String("x"),
		"i": Int(1),
		"a": Array{Bool(false), Float(0.25)},
	}

	back, err := FromGo(ToGo(orig))
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestMarshalJSONSortsKeys(t *testing.T) {
	data, err := json.Marshal(Object{"b": Int(1), "a": Null{}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":1}`, string(data))
}

func TestMarshalValueNested(t *testing.T) {
	data, err := MarshalValue(Array{Object{"z": Float(1.25)}, String("<&>")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"z":1.25},"<&>"]`, string(data))
}
