package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexCase struct {
	src      string
	expected []token
}

// stripPos drops positions so cases only compare type and value.
func stripPos(tokens []token) []token {
	out := make([]token, len(tokens))
	for i, t := range tokens {
		out[i] = token{tokenType: t.tokenType, value: t.value}
	}
	return out
}

func TestLex(t *testing.T) {
	cases := []lexCase{
		{
			src: "SELECT * FROM users",
			expected: []token{
				{tokenType: tkKeyword, value: "SELECT"},
				{tokenType: tkSeparator, value: "*"},
				{tokenType: tkKeyword, value: "FROM"},
				{tokenType: tkIdentifier, value: "users"},
				{tokenType: tkEOF},
			},
		},
		{
			src: "select a.b as c from t",
			expected: []token{
				{tokenType: tkKeyword, value: "SELECT"},
				{tokenType: tkIdentifier, value: "a.b"},
				{tokenType: tkKeyword, value: "AS"},
				{tokenType: tkIdentifier, value: "c"},
				{tokenType: tkKeyword, value: "FROM"},
				{tokenType: tkIdentifier, value: "t"},
				{tokenType: tkEOF},
			},
		},
		{
			src: "age>=21&&name<>'bo\\'b'||x==-1.5e3",
			expected: []token{
				{tokenType: tkIdentifier, value: "age"},
				{tokenType: tkOperator, value: ">="},
				{tokenType: tkNumber, value: "21"},
				{tokenType: tkOperator, value: "&&"},
				{tokenType: tkIdentifier, value: "name"},
				{tokenType: tkOperator, value: "<>"},
				{tokenType: tkString, value: "bo'b"},
				{tokenType: tkOperator, value: "||"},
				{tokenType: tkIdentifier, value: "x"},
				{tokenType: tkOperator, value: "=="},
				{tokenType: tkNumber, value: "-1.5e3"},
				{tokenType: tkEOF},
			},
		},
		{
			src: `tags = ["a\tb", 2]`,
			expected: []token{
				{tokenType: tkIdentifier, value: "tags"},
				{tokenType: tkOperator, value: "="},
				{tokenType: tkSeparator, value: "["},
				{tokenType: tkString, value: "a\tb"},
				{tokenType: tkSeparator, value: ","},
				{tokenType: tkNumber, value: "2"},
				{tokenType: tkSeparator, value: "]"},
				{tokenType: tkEOF},
			},
		},
		{
			src: "limit 10em",
			expected: []token{
				{tokenType: tkIdentifier, value: "limit"},
				{tokenType: tkNumber, value: "10"},
				{tokenType: tkIdentifier, value: "em"},
				{tokenType: tkEOF},
			},
		},
		{
			src:      "  \n\t ",
			expected: []token{{tokenType: tkEOF}},
		},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			tokens, err := newLexer(c.src).lex()
			require.NoError(t, err)
			assert.Equal(t, c.expected, stripPos(tokens))
		})
	}
}

func TestLexPositions(t *testing.T) {
	tokens, err := newLexer("FROM  users").lex()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 0, tokens[0].pos)
	assert.Equal(t, 6, tokens[1].pos)
	assert.Equal(t, 11, tokens[2].pos)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src string
		pos int
		msg string
	}{
		{src: "a = 'open", pos: 4, msg: "unterminated string"},
		{src: `a = "x\`, pos: 4, msg: "unterminated string"},
		{src: "a # 1", pos: 2, msg: "unexpected character '#'"},
		{src: "a ! 1", pos: 2, msg: "unexpected character '!'"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := newLexer(c.src).lex()
			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, c.pos, syn.Pos)
			assert.Equal(t, c.msg, syn.Message)
		})
	}
}
