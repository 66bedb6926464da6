package query

import (
	"fmt"
	"slices"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

// Token is one element of the RPN filter sequence: Operator or Statement.
type Token interface {
	rpnToken() // Marker method - seals interface to this package
}

// Operator pops two results and pushes their combination.
type Operator string

func (Operator) rpnToken() {}

// Statement is a resolved leaf test. Literal operands are unwrapped into
// Value; field references stay tagged in Ref. At most one of the two is set.
type Statement struct {
	Key        string
	Comparator string
	Value      ir.Value
	Ref        *ast.FieldRef
}

func (Statement) rpnToken() {}

// IsFieldRef reports whether the statement compares against another field.
func (s Statement) IsFieldRef() bool {
	return s.Ref != nil
}

// flattenFilters turns the root filter list into an RPN token sequence.
// Roots that emit no tokens are ignored; more than one remaining root is an
// error because there is no operator to join them with.
func flattenFilters(roots []ast.Node) ([]Token, error) {
	tokens := []Token{}
	seen := -1
	for i, root := range roots {
		path := fmt.Sprintf("filters[%d]", i)
		sub, err := flatten(root, path)
		if err != nil {
			return nil, err
		}
		if len(sub) == 0 {
			continue
		}
		if seen >= 0 {
			return nil, &MalformedFilterError{
				Path:   path,
				Reason: fmt.Sprintf("multiple root filters (first at filters[%d]) with no operator joining them", seen),
			}
		}
		seen = i
		tokens = append(tokens, sub...)
	}

	slices.Reverse(tokens)
	return tokens, nil
}

// flatten emits the pre-reversal token sequence for one node.
func flatten(n ast.Node, path string) ([]Token, error) {
	switch node := n.(type) {
	case ast.Empty:
		return nil, nil

	case *ast.Statement:
		if node == nil {
			return nil, &MalformedFilterError{Path: path, Reason: "nil statement"}
		}
		return []Token{resolveStatement(node)}, nil

	case *ast.Operation:
		if node == nil {
			return nil, &MalformedFilterError{Path: path, Reason: "nil operation"}
		}
		return flattenOperation(node, path)

	case nil:
		return nil, &MalformedFilterError{Path: path, Reason: "missing filter node"}

	default:
		return nil, &MalformedFilterError{Path: path, Reason: fmt.Sprintf("unsupported node type %T", n)}
	}
}

func flattenOperation(op *ast.Operation, path string) ([]Token, error) {
	operandPath := func(i int) string {
		return fmt.Sprintf("%s.operands[%d]", path, i)
	}

	switch len(op.Operands) {
	case 0:
		return nil, &MalformedFilterError{Path: path, Reason: "operation has no operands"}
	case 1:
		// Single operands don't require operators
		return flatten(op.Operands[0], operandPath(0))
	}

	if op.Operator != ast.OpAnd && op.Operator != ast.OpOr {
		return nil, &MalformedFilterError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported operator %q (want %q or %q)", op.Operator, ast.OpAnd, ast.OpOr),
		}
	}

	// Emit OP A OP B OP C D, which reverses into D C OP B OP A OP
	var out []Token
	last := len(op.Operands) - 1
	for i, child := range op.Operands[:last] {
		sub, err := flattenOperand(child, operandPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, Operator(op.Operator))
		out = append(out, sub...)
	}

	sub, err := flattenOperand(op.Operands[last], operandPath(last))
	if err != nil {
		return nil, err
	}
	return append(out, sub...), nil
}

// flattenOperand flattens one operand of an n-ary operation. Such an operand
// must produce at least one token or the operator would be left short.
func flattenOperand(n ast.Node, path string) ([]Token, error) {
	sub, err := flatten(n, path)
	if err != nil {
		return nil, err
	}
	if len(sub) == 0 {
		return nil, &MalformedFilterError{Path: path, Reason: "operand is empty"}
	}
	return sub, nil
}

// resolveStatement copies a statement, unwrapping a literal operand.
func resolveStatement(s *ast.Statement) Statement {
	out := Statement{Key: s.Key, Comparator: s.Comparator}
	switch v := s.Value.(type) {
	case ast.Literal:
		out.Value = v.Value
	case ast.FieldRef:
		ref := v
		out.Ref = &ref
	}
	return out
}
