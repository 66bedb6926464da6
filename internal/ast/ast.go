package ast

import "github.com/roach88/universql/internal/ir"

// Boolean operators combining filter nodes.
const (
	OpAnd = "&"
	OpOr  = "|"
)

// Option kinds understood by the normalizer.
const (
	OptionSort  = "sort"
	OptionLimit = "limit"
	OptionSkip  = "skip"
)

// Tree is the parsed form of a query.
type Tree struct {
	// Tables lists the tables the query targets. Required by the normalizer.
	Tables []string

	// Map maps query-local aliases to backing fields. Opaque to the normalizer.
	Map map[string]string

	// Options holds sort/limit/skip entries in source order.
	Options []Option

	// Filters holds the root filter nodes. Well-formed queries have at most one.
	Filters []Node
}

// Option is a single query option such as `limit 10`.
// Type is kept as a plain string so unknown kinds survive until normalization.
type Option struct {
	Type  string
	Value ir.Value
}

// Node is a filter tree node: *Operation, *Statement or Empty.
type Node interface {
	filterNode() // Marker method - seals interface to this package
}

// Operation combines its operands with a boolean operator.
// Operands are ordered; a single operand is a transparent grouping.
type Operation struct {
	Operator string
	Operands []Node
}

func (*Operation) filterNode() {}

// Statement is a leaf test of Key against Value using Comparator.
type Statement struct {
	Key        string
	Comparator string
	Value      Operand // nil when the statement carries no value
}

func (*Statement) filterNode() {}

// Empty is a leaf with no content. It contributes nothing to the filters.
type Empty struct{}

func (Empty) filterNode() {}

// Operand is the right-hand side of a Statement: Literal or FieldRef.
type Operand interface {
	operand() // Marker method - seals interface to this package
}

// Literal wraps a constant value. The normalizer unwraps it.
type Literal struct {
	Value ir.Value
}

func (Literal) operand() {}

// FieldRef references another field. The normalizer keeps it tagged so
// evaluators can tell it apart from a literal string.
type FieldRef struct {
	Field string
}

func (FieldRef) operand() {}

// And builds an Operation joining operands with OpAnd.
func And(operands ...Node) *Operation {
	return &Operation{Operator: OpAnd, Operands: operands}
}

// Or builds an Operation joining operands with OpOr.
func Or(operands ...Node) *Operation {
	return &Operation{Operator: OpOr, Operands: operands}
}

// Compare builds a Statement comparing key against a literal value.
func Compare(key, comparator string, value ir.Value) *Statement {
	return &Statement{Key: key, Comparator: comparator, Value: Literal{Value: value}}
}

// CompareField builds a Statement comparing key against another field.
func CompareField(key, comparator, field string) *Statement {
	return &Statement{Key: key, Comparator: comparator, Value: FieldRef{Field: field}}
}
