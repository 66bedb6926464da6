// Package harness runs conformance scenarios against the query parser and
// normalizer.
//
// # Scenario Format
//
// Scenarios are YAML files. Each one supplies either query text or an AST
// document, plus expectations and assertions about the normalized result:
//
//	name: and_pair
//	description: "& over two statements reverses into B A &"
//	query: "FROM users WHERE age > 21 & name = 'bob'"
//	expect:
//	  tables: [users]
//	  rpn: "(name = 'bob') (age > 21) &"
//	assertions:
//	  - type: rpn_valid
//	  - type: operator_count
//	    operator: "&"
//	    count: 1
//
// An AST document replaces the query field for inputs the text grammar
// cannot produce:
//
//	ast:
//	  tables: [t]
//	  filters:
//	    - operator: "&"
//	      operands: []
//	expect:
//	  error: MALFORMED_FILTER
//
// # Assertion Types
//
//   - rpn_valid: the filter sequence evaluates on a two-operand stack machine
//   - contains_statement: a statement with the given key (and optionally
//     comparator, value or field) appears in the sequence
//   - statement_order: statements with the given keys appear in order
//   - operator_count: an operator appears exactly N times
//
// # Golden Files
//
// RunWithGolden and AssertGolden compare a canonical JSON snapshot of the
// outcome against testdata/golden/<name>.golden using goldie. Regenerate
// with:
//
//	go test ./internal/harness -update
package harness
