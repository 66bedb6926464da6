package query

import (
	"maps"
	"slices"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

// Query is a normalized query ready for execution by a downstream engine.
// A Query is not modified after New returns it.
type Query struct {
	// Tables lists the target tables, copied from the tree.
	Tables []string

	// Map is the alias → field map, copied from the tree. Never nil.
	Map map[string]string

	// Sort holds the sort option verbatim; nil when absent.
	Sort ir.Value

	// Limit and Skip are nil when absent.
	Limit *Count
	Skip  *Count

	// Filters is the filter expression in reverse Polish notation. Never nil.
	Filters []Token
}

// New normalizes a parsed query tree.
//
// It fails with *MissingTableError when the tree has no tables, with
// *UnknownOptionError for options other than sort, limit and skip, and with
// *MalformedFilterError when the filter tree has no RPN encoding. Nothing is
// returned on failure.
func New(tree *ast.Tree) (*Query, error) {
	if tree == nil || len(tree.Tables) == 0 {
		return nil, &MissingTableError{}
	}

	q := &Query{
		Tables: slices.Clone(tree.Tables),
		Map:    maps.Clone(tree.Map),
	}
	if q.Map == nil {
		q.Map = map[string]string{}
	}

	if err := q.resolveOptions(tree.Options); err != nil {
		return nil, err
	}

	filters, err := flattenFilters(tree.Filters)
	if err != nil {
		return nil, err
	}
	q.Filters = filters

	return q, nil
}
