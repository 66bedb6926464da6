package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

func newWithOptions(t *testing.T, opts ...ast.Option) *Query {
	t.Helper()
	q, err := New(&ast.Tree{Tables: []string{"t"}, Options: opts})
	require.NoError(t, err)
	return q
}

func TestResolveOptions_SortVerbatim(t *testing.T) {
	sort := ir.Array{ir.String("-age"), ir.String("name")}
	q := newWithOptions(t, ast.Option{Type: ast.OptionSort, Value: sort})

	assert.Equal(t, sort, q.Sort)
}

func TestResolveOptions_SortNotCoerced(t *testing.T) {
	q := newWithOptions(t, ast.Option{Type: ast.OptionSort, Value: ir.String("10")})
	assert.Equal(t, ir.String("10"), q.Sort)
}

func TestResolveOptions_LimitCoercion(t *testing.T) {
	q := newWithOptions(t, ast.Option{Type: ast.OptionLimit, Value: ir.String("10")})

	require.NotNil(t, q.Limit)
	assert.True(t, q.Limit.IsInt())
	assert.Equal(t, int64(10), q.Limit.Int)
	assert.Equal(t, ir.Int(10), q.Limit.Value())
}

func TestResolveOptions_LimitFallback(t *testing.T) {
	q := newWithOptions(t, ast.Option{Type: ast.OptionLimit, Value: ir.String("abc")})

	require.NotNil(t, q.Limit)
	assert.False(t, q.Limit.IsInt())
	assert.Equal(t, ir.String("abc"), q.Limit.Raw)
	assert.Equal(t, ir.String("abc"), q.Limit.Value())
}

func TestResolveOptions_SkipCoercion(t *testing.T) {
	q := newWithOptions(t,
		ast.Option{Type: ast.OptionSkip, Value: ir.String("25")},
	)
	require.NotNil(t, q.Skip)
	assert.Equal(t, Count{Int: 25}, *q.Skip)

	q = newWithOptions(t,
		ast.Option{Type: ast.OptionSkip, Value: ir.String("$offset")},
	)
	require.NotNil(t, q.Skip)
	assert.Equal(t, Count{Raw: ir.String("$offset")}, *q.Skip)
}

func TestResolveOptions_LaterEntriesOverwrite(t *testing.T) {
	q := newWithOptions(t,
		ast.Option{Type: ast.OptionLimit, Value: ir.Int(5)},
		ast.Option{Type: ast.OptionSort, Value: ir.String("a")},
		ast.Option{Type: ast.OptionLimit, Value: ir.Int(7)},
		ast.Option{Type: ast.OptionSort, Value: ir.String("b")},
	)

	assert.Equal(t, int64(7), q.Limit.Int)
	assert.Equal(t, ir.String("b"), q.Sort)
}

func TestResolveOptions_UnknownOption(t *testing.T) {
	for _, key := range []string{"offset", "LIMIT", "", "order"} {
		_, err := New(&ast.Tree{
			Tables:  []string{"t"},
			Options: []ast.Option{{Type: key, Value: ir.Int(1)}},
		})

		var uo *UnknownOptionError
		require.ErrorAs(t, err, &uo, "key %q", key)
		assert.Equal(t, key, uo.Key)
	}
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		name  string
		input ir.Value
		want  Count
	}{
		{"int", ir.Int(3), Count{Int: 3}},
		{"negative int", ir.Int(-3), Count{Int: -3}},
		{"float truncates", ir.Float(2.9), Count{Int: 2}},
		{"negative float truncates", ir.Float(-2.9), Count{Int: -2}},
		{"numeric string", ir.String("10"), Count{Int: 10}},
		{"leading whitespace", ir.String("  42"), Count{Int: 42}},
		{"signed", ir.String("-8"), Count{Int: -8}},
		{"plus sign", ir.String("+8"), Count{Int: 8}},
		{"trailing text", ir.String("12px"), Count{Int: 12}},
		{"decimal string", ir.String("3.7"), Count{Int: 3}},
		{"hex", ir.String("0x1A"), Count{Int: 26}},
		{"bare 0x", ir.String("0x"), Count{Int: 0}},
		{"alpha", ir.String("abc"), Count{Raw: ir.String("abc")}},
		{"empty", ir.String(""), Count{Raw: ir.String("")}},
		{"sign only", ir.String("-"), Count{Raw: ir.String("-")}},
		{"overflow", ir.String("99999999999999999999"), Count{Raw: ir.String("99999999999999999999")}},
		{"bool", ir.Bool(true), Count{Raw: ir.Bool(true)}},
		{"null", ir.Null{}, Count{Raw: ir.Null{}}},
		{"nil", nil, Count{Raw: ir.Null{}}},
		{"array", ir.Array{ir.Int(1)}, Count{Raw: ir.Array{ir.Int(1)}}},
		{"nan", ir.Float(math.NaN()), Count{Raw: ir.Float(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceCount(tt.input)
			if tt.name == "nan" {
				assert.False(t, got.IsInt())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
