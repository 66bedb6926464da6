package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

func and(operands ...ast.Node) *ast.Operation {
	return &ast.Operation{Operator: ast.OpAnd, Operands: operands}
}

func or(operands ...ast.Node) *ast.Operation {
	return &ast.Operation{Operator: ast.OpOr, Operands: operands}
}

func stmt(key, cmp string, v ir.Value) *ast.Statement {
	return &ast.Statement{Key: key, Comparator: cmp, Value: ast.Literal{Value: v}}
}

type parseCase struct {
	name   string
	src    string
	expect *ast.Tree
}

func TestParse(t *testing.T) {
	cases := []parseCase{
		{
			name:   "bare from",
			src:    "FROM users",
			expect: &ast.Tree{Tables: []string{"users"}},
		},
		{
			name: "select star",
			src:  "SELECT * FROM users, groups",
			expect: &ast.Tree{
				Tables: []string{"users", "groups"},
				Map:    map[string]string{},
			},
		},
		{
			name: "select aliases",
			src:  "SELECT name AS n, profile.age FROM users",
			expect: &ast.Tree{
				Tables: []string{"users"},
				Map:    map[string]string{"n": "name", "profile.age": "profile.age"},
			},
		},
		{
			name: "single statement is wrapped at both levels",
			src:  "FROM users WHERE age > 21",
			expect: &ast.Tree{
				Tables:  []string{"users"},
				Filters: []ast.Node{or(and(stmt("age", ">", ir.Int(21))))},
			},
		},
		{
			name: "and binds tighter than or",
			src:  "FROM t WHERE a = 1 | b = 2 & c = 3",
			expect: &ast.Tree{
				Tables: []string{"t"},
				Filters: []ast.Node{or(
					and(stmt("a", "=", ir.Int(1))),
					and(stmt("b", "=", ir.Int(2)), stmt("c", "=", ir.Int(3))),
				)},
			},
		},
		{
			name: "parentheses and keyword operators",
			src:  "from t where (a = 1 or b = 2) and c like 'x%'",
			expect: &ast.Tree{
				Tables: []string{"t"},
				Filters: []ast.Node{or(and(
					or(and(stmt("a", "=", ir.Int(1))), and(stmt("b", "=", ir.Int(2)))),
					stmt("c", "like", ir.String("x%")),
				))},
			},
		},
		{
			name: "comparator aliases",
			src:  "FROM t WHERE a == 1 && b <> 2",
			expect: &ast.Tree{
				Tables: []string{"t"},
				Filters: []ast.Node{or(and(
					stmt("a", "=", ir.Int(1)),
					stmt("b", "!=", ir.Int(2)),
				))},
			},
		},
		{
			name: "literal kinds",
			src:  `FROM t WHERE a = "s" & b = 1.5 & c = true & d = FALSE & e = null & f = [1, 'x', []]`,
			expect: &ast.Tree{
				Tables: []string{"t"},
				Filters: []ast.Node{or(and(
					stmt("a", "=", ir.String("s")),
					stmt("b", "=", ir.Float(1.5)),
					stmt("c", "=", ir.Bool(true)),
					stmt("d", "=", ir.Bool(false)),
					stmt("e", "=", ir.Null{}),
					stmt("f", "=", ir.Array{ir.Int(1), ir.String("x"), ir.Array{}}),
				))},
			},
		},
		{
			name: "field reference operand",
			src:  "FROM t WHERE created < updated_at",
			expect: &ast.Tree{
				Tables: []string{"t"},
				Filters: []ast.Node{or(and(
					&ast.Statement{Key: "created", Comparator: "<", Value: ast.FieldRef{Field: "updated_at"}},
				))},
			},
		},
		{
			name: "options",
			src:  "FROM t SORT age DESC, name ASC, id LIMIT '10' Skip 5 cursor abc",
			expect: &ast.Tree{
				Tables: []string{"t"},
				Options: []ast.Option{
					{Type: ast.OptionSort, Value: ir.Array{ir.String("-age"), ir.String("name"), ir.String("id")}},
					{Type: ast.OptionLimit, Value: ir.String("10")},
					{Type: ast.OptionSkip, Value: ir.Int(5)},
					{Type: "cursor", Value: ir.String("abc")},
				},
			},
		},
		{
			name:   "missing from parses",
			src:    "SELECT a",
			expect: &ast.Tree{Map: map[string]string{"a": "a"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.expect, tree)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		pos  int
		msg  string
	}{
		{name: "select without fields", src: "SELECT FROM t", pos: 7, msg: `expected field name, got keyword "FROM"`},
		{name: "duplicate alias", src: "SELECT a AS x, b AS x FROM t", pos: 20, msg: `duplicate alias "x"`},
		{name: "from without table", src: "FROM", pos: 4, msg: "expected table name, got end of input"},
		{name: "missing comparator", src: "FROM t WHERE a 1", pos: 15, msg: `expected comparator, got number "1"`},
		{name: "missing value", src: "FROM t WHERE a =", pos: 16, msg: "expected value, got end of input"},
		{name: "unclosed paren", src: "FROM t WHERE (a = 1", pos: 19, msg: "unclosed parenthesis opened at offset 13"},
		{name: "dangling operator", src: "FROM t WHERE a = 1 &", pos: 20, msg: "expected field name, got end of input"},
		{name: "field ref inside list", src: "FROM t WHERE a = [b]", pos: 18, msg: `expected value, got identifier "b"`},
		{name: "bad list separator", src: "FROM t WHERE a = [1 2]", pos: 20, msg: `expected "," or "]", got number "2"`},
		{name: "stray token", src: "FROM t WHERE a = 1 )", pos: 19, msg: `unexpected separator ")"`},
		{name: "option without value", src: "FROM t LIMIT", pos: 12, msg: `missing value for option "LIMIT"`},
		{name: "sort without key", src: "FROM t SORT 1", pos: 12, msg: `expected sort key, got number "1"`},
		{name: "lexer error", src: "FROM t WHERE a = 'x", pos: 17, msg: "unterminated string"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.src)
			require.Error(t, err)
			assert.True(t, IsSyntax(err))
			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, c.pos, syn.Pos)
			assert.Equal(t, c.msg, syn.Message)
			assert.Equal(t, ErrCodeSyntax, syn.Code())
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := &SyntaxError{Pos: 3, Message: "boom"}
	assert.Equal(t, "syntax error at offset 3: boom", err.Error())
}
