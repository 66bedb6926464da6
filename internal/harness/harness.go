package harness

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
	"github.com/roach88/universql/internal/parser"
	"github.com/roach88/universql/internal/query"
)

// Run executes a scenario and returns the result.
//
// Parse, decode and normalize failures are part of the result, not errors:
// a scenario may expect them. Run fails only for an invalid scenario.
//
// Execution flow:
// 1. Build the tree from query text or the AST document
// 2. Normalize it
// 3. Check the expected error, or the expectations and assertions
func Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	result := NewResult()
	tree, err := buildTree(scenario)
	if err == nil {
		result.Query, err = query.New(tree)
	}
	result.Err = err

	exp := scenario.Expect
	switch {
	case exp != nil && exp.Error != "":
		checkError(exp.Error, result)
	case result.Err != nil:
		result.AddError(fmt.Sprintf("unexpected error [%s]: %v", query.ErrorCode(result.Err), result.Err))
	default:
		if exp != nil {
			checkExpectation(exp, result)
		}
		for i, a := range scenario.Assertions {
			if err := evaluateAssertion(result.Query.Filters, a); err != nil {
				result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
			}
		}
	}
	return result, nil
}

func buildTree(s *Scenario) (*ast.Tree, error) {
	if s.AST != nil {
		return ast.Decode(s.AST)
	}
	return parser.Parse(s.Query)
}

func checkError(code string, result *Result) {
	if result.Err == nil {
		result.AddError(fmt.Sprintf("expected error %s, got success", code))
		return
	}
	if got := query.ErrorCode(result.Err); got != code {
		result.AddError(fmt.Sprintf("expected error %s, got %s: %v", code, got, result.Err))
	}
}

func checkExpectation(exp *Expectation, result *Result) {
	q := result.Query

	if exp.Tables != nil && !slices.Equal(exp.Tables, q.Tables) {
		result.AddError(fmt.Sprintf("tables: expected %v, got %v", exp.Tables, q.Tables))
	}
	if exp.Map != nil && !maps.Equal(exp.Map, q.Map) {
		result.AddError(fmt.Sprintf("map: expected %v, got %v", exp.Map, q.Map))
	}
	if exp.RPN != nil {
		if got := query.FormatRPN(q.Filters); got != *exp.RPN {
			result.AddError(fmt.Sprintf("rpn: expected %q, got %q", *exp.RPN, got))
		}
	}

	checkValue(result, "sort", exp.Sort, q.Sort)
	checkValue(result, "limit", exp.Limit, countValue(q.Limit))
	checkValue(result, "skip", exp.Skip, countValue(q.Skip))
}

func countValue(c *query.Count) ir.Value {
	if c == nil {
		return nil
	}
	return c.Value()
}

// checkValue compares a YAML-decoded expectation with an actual value.
// A nil expectation is not checked.
func checkValue(result *Result, name string, expected any, actual ir.Value) {
	if expected == nil {
		return
	}
	want, err := ir.FromGo(expected)
	if err != nil {
		result.AddError(fmt.Sprintf("%s: invalid expectation: %v", name, err))
		return
	}
	if actual == nil {
		result.AddError(fmt.Sprintf("%s: expected %s, got nothing", name, query.FormatLiteral(want)))
		return
	}
	if !reflect.DeepEqual(want, actual) {
		result.AddError(fmt.Sprintf("%s: expected %s, got %s", name, query.FormatLiteral(want), query.FormatLiteral(actual)))
	}
}
