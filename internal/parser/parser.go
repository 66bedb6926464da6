package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

const (
	tokenErr    = "unexpected %s"
	expectedErr = "expected %s, got %s"
)

type parser struct {
	tokens []token
	pos    int
}

// Parse parses query text into a tree. A missing FROM clause is not a
// syntax error; it surfaces when the tree is normalized.
func Parse(src string) (*ast.Tree, error) {
	tokens, err := newLexer(src).lex()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseQuery()
}

func (p *parser) parseQuery() (*ast.Tree, error) {
	tree := &ast.Tree{}
	if p.acceptKeyword(kwSelect) {
		m, err := p.parseFields()
		if err != nil {
			return nil, err
		}
		tree.Map = m
	}
	if p.acceptKeyword(kwFrom) {
		tables, err := p.parseTables()
		if err != nil {
			return nil, err
		}
		tree.Tables = tables
	}
	if p.acceptKeyword(kwWhere) {
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		tree.Filters = []ast.Node{node}
	}
	for p.peek().tokenType != tkEOF {
		opt, err := p.parseOption()
		if err != nil {
			return nil, err
		}
		tree.Options = append(tree.Options, opt)
	}
	return tree, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.tokenType != tkEOF {
		p.pos++
	}
	return t
}

func (p *parser) acceptKeyword(kw string) bool {
	if t := p.peek(); t.tokenType == tkKeyword && t.value == kw {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptSeparator(sep string) bool {
	if t := p.peek(); t.tokenType == tkSeparator && t.value == sep {
		p.pos++
		return true
	}
	return false
}

// acceptOperator consumes an operator token matching one of symbols.
func (p *parser) acceptOperator(symbols ...string) bool {
	t := p.peek()
	if t.tokenType != tkOperator {
		return false
	}
	for _, s := range symbols {
		if t.value == s {
			p.pos++
			return true
		}
	}
	return false
}

func (p *parser) expectIdentifier(what string) (token, error) {
	t := p.next()
	if t.tokenType != tkIdentifier {
		return token{}, p.errorf(t, expectedErr, what, describe(t))
	}
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Pos: t.pos, Message: fmt.Sprintf(format, args...)}
}

// parseFields reads the SELECT list into an alias to field map. "*" selects
// everything and yields an empty map.
func (p *parser) parseFields() (map[string]string, error) {
	m := map[string]string{}
	if p.acceptSeparator("*") {
		return m, nil
	}
	for {
		field, err := p.expectIdentifier("field name")
		if err != nil {
			return nil, err
		}
		alias := field
		if p.acceptKeyword(kwAs) {
			if alias, err = p.expectIdentifier("alias"); err != nil {
				return nil, err
			}
		}
		if _, ok := m[alias.value]; ok {
			return nil, p.errorf(alias, "duplicate alias %q", alias.value)
		}
		m[alias.value] = field.value
		if !p.acceptSeparator(",") {
			return m, nil
		}
	}
}

func (p *parser) parseTables() ([]string, error) {
	var tables []string
	for {
		t, err := p.expectIdentifier("table name")
		if err != nil {
			return nil, err
		}
		tables = append(tables, t.value)
		if !p.acceptSeparator(",") {
			return tables, nil
		}
	}
}

func (p *parser) acceptOr() bool {
	return p.acceptOperator("|", "||") || p.acceptKeyword(kwOr)
}

func (p *parser) acceptAnd() bool {
	return p.acceptOperator("&", "&&") || p.acceptKeyword(kwAnd)
}

func (p *parser) parseOr() (ast.Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{first}
	for p.acceptOr() {
		n, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, n)
	}
	return &ast.Operation{Operator: ast.OpOr, Operands: operands}, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	operands := []ast.Node{first}
	for p.acceptAnd() {
		n, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, n)
	}
	return &ast.Operation{Operator: ast.OpAnd, Operands: operands}, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	if open := p.peek(); p.acceptSeparator("(") {
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.acceptSeparator(")") {
			return nil, p.errorf(p.peek(), "unclosed parenthesis opened at offset %d", open.pos)
		}
		return n, nil
	}
	return p.parseStatement()
}

func (p *parser) parseStatement() (ast.Node, error) {
	key, err := p.expectIdentifier("field name")
	if err != nil {
		return nil, err
	}
	comparator, err := p.parseComparator()
	if err != nil {
		return nil, err
	}
	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ast.Statement{Key: key.value, Comparator: comparator, Value: operand}, nil
}

func (p *parser) parseComparator() (string, error) {
	t := p.next()
	switch {
	case t.tokenType == tkKeyword && t.value == kwLike:
		return "like", nil
	case t.tokenType != tkOperator:
	case t.value == "==":
		return "=", nil
	case t.value == "<>":
		return "!=", nil
	case t.value == "=", t.value == "!=", t.value == "<", t.value == "<=", t.value == ">", t.value == ">=":
		return t.value, nil
	}
	return "", p.errorf(t, expectedErr, "comparator", describe(t))
}

// parseOperand reads the right-hand side of a statement. Bare identifiers
// are field references; everything else is a literal.
func (p *parser) parseOperand() (ast.Operand, error) {
	if t := p.peek(); t.tokenType == tkIdentifier {
		p.pos++
		return ast.FieldRef{Field: t.value}, nil
	}
	v, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return ast.Literal{Value: v}, nil
}

func (p *parser) parseLiteral() (ir.Value, error) {
	t := p.next()
	switch t.tokenType {
	case tkString:
		return ir.String(t.value), nil
	case tkNumber:
		return parseNumber(t)
	case tkKeyword:
		switch t.value {
		case kwTrue:
			return ir.Bool(true), nil
		case kwFalse:
			return ir.Bool(false), nil
		case kwNull:
			return ir.Null{}, nil
		}
	case tkSeparator:
		if t.value == "[" {
			return p.parseList()
		}
	}
	return nil, p.errorf(t, expectedErr, "value", describe(t))
}

func (p *parser) parseList() (ir.Value, error) {
	arr := ir.Array{}
	if p.acceptSeparator("]") {
		return arr, nil
	}
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if p.acceptSeparator("]") {
			return arr, nil
		}
		if t := p.peek(); !p.acceptSeparator(",") {
			return nil, p.errorf(t, expectedErr, `"," or "]"`, describe(t))
		}
	}
}

func parseNumber(t token) (ir.Value, error) {
	if !strings.ContainsAny(t.value, ".eE") {
		if i, err := strconv.ParseInt(t.value, 10, 64); err == nil {
			return ir.Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(t.value, 64)
	if err != nil {
		return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("invalid number %q", t.value)}
	}
	return ir.Float(f), nil
}

// parseOption reads one trailing option. SORT takes a key list; any other
// word takes a single value, where a bare identifier is kept as a string.
func (p *parser) parseOption() (ast.Option, error) {
	if p.acceptKeyword(kwSort) {
		keys, err := p.parseSortKeys()
		if err != nil {
			return ast.Option{}, err
		}
		return ast.Option{Type: ast.OptionSort, Value: keys}, nil
	}

	word := p.next()
	if word.tokenType != tkIdentifier {
		return ast.Option{}, p.errorf(word, tokenErr, describe(word))
	}
	if t := p.peek(); t.tokenType == tkIdentifier {
		p.pos++
		return ast.Option{Type: strings.ToLower(word.value), Value: ir.String(t.value)}, nil
	}
	if p.peek().tokenType == tkEOF {
		return ast.Option{}, p.errorf(p.peek(), "missing value for option %q", word.value)
	}
	v, err := p.parseLiteral()
	if err != nil {
		return ast.Option{}, err
	}
	return ast.Option{Type: strings.ToLower(word.value), Value: v}, nil
}

func (p *parser) parseSortKeys() (ir.Array, error) {
	keys := ir.Array{}
	for {
		field, err := p.expectIdentifier("sort key")
		if err != nil {
			return nil, err
		}
		key := field.value
		if p.acceptKeyword(kwDesc) {
			key = "-" + key
		} else {
			p.acceptKeyword(kwAsc)
		}
		keys = append(keys, ir.String(key))
		if !p.acceptSeparator(",") {
			return keys, nil
		}
	}
}
