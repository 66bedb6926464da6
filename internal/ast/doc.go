// Package ast defines the parsed query tree consumed by the normalizer.
//
// A Tree is what the grammar parser produces from query text:
//
//	[query text] → [parser] → ast.Tree → [query.New] → query.Query
//
// Trees can also be decoded from generic documents (JSON, YAML, CUE) using
// Decode, which accepts the same object shape the tree encodes to:
//
//	{
//	  "tables":  ["users"],
//	  "map":     {"n": "name"},
//	  "options": [{"type": "limit", "value": "10"}],
//	  "filters": [{"operator": "&", "operands": [
//	    {"key": "age", "comparator": ">", "value": {"type": "literal", "value": 21}},
//	    {"key": "name", "comparator": "=", "value": {"type": "field", "value": "alias"}}
//	  ]}]
//	}
//
// SEALED INTERFACES:
//
// Node and Operand are sealed with marker methods so consumers can switch
// over them exhaustively:
//
//	switch n := node.(type) {
//	case *Operation:
//	case *Statement:
//	case Empty:
//	}
package ast
