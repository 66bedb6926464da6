// Package query normalizes a parsed query tree into a Query.
//
// The normalizer runs two passes over an ast.Tree:
//
//	[ast.Tree] → Option Resolver  → Sort / Limit / Skip
//	           → Filter Flattener → Filters (RPN token sequence)
//
// RPN LAYOUT:
//
// An Operation with operands [A, B, C, D] and operator OP is emitted as
//
//	OP, flatten(A), OP, flatten(B), OP, flatten(C), flatten(D)
//
// and the whole sequence is reversed once at the end, yielding
//
//	flatten(D)', flatten(C)', OP, flatten(B)', OP, flatten(A)', OP
//
// which a two-operand stack machine evaluates left to right. Reversal
// re-associates the chain, which is only sound because & and | are
// associative and commutative; Operations with any other operator are
// rejected.
//
// Single-operand Operations are transparent: the operator is not emitted.
//
// Flattening is pure. Every call returns its own token slice, and the input
// tree is never modified.
package query
