// Package universql turns query text into a normalized Query whose filter
// expression is laid out in reverse Polish notation.
//
//	q, err := universql.Parse("FROM users WHERE age > 21 & name = 'bob' LIMIT 10")
//	// q.Filters: (name = 'bob') (age > 21) &
package universql

import (
	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/parser"
	"github.com/roach88/universql/internal/query"
)

// Query is a normalized query. See query.Query.
type Query = query.Query

// Token is one element of a Query's RPN filter sequence: a query.Operator or
// a query.Statement.
type Token = query.Token

// Parse parses and normalizes query text. Errors are *parser.SyntaxError,
// *query.MissingTableError, *query.UnknownOptionError or
// *query.MalformedFilterError; query.ErrorCode returns a stable code for each.
func Parse(src string) (*Query, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return query.New(tree)
}

// Normalize normalizes an already parsed tree, for callers that build trees
// without query text.
func Normalize(tree *ast.Tree) (*Query, error) {
	return query.New(tree)
}
