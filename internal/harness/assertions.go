package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/universql/internal/ir"
	"github.com/roach88/universql/internal/query"
)

// AssertionError is returned when an assertion fails.
// It includes the full sequence to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Tokens   []query.Token // Full filter sequence for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  Sequence: %s", query.FormatRPN(e.Tokens))
	return buf.String()
}

func evaluateAssertion(tokens []query.Token, a Assertion) error {
	switch a.Type {
	case AssertRPNValid:
		return assertRPNValid(tokens)
	case AssertContainsStatement:
		return assertContainsStatement(tokens, a)
	case AssertStatementOrder:
		return assertStatementOrder(tokens, a)
	case AssertOperatorCount:
		return assertOperatorCount(tokens, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRPNValid(tokens []query.Token) error {
	if err := query.CheckRPN(tokens); err != nil {
		return &AssertionError{
			Type:     AssertRPNValid,
			Expected: "evaluable RPN sequence",
			Actual:   err.Error(),
			Tokens:   tokens,
		}
	}
	return nil
}

// assertContainsStatement checks that some statement matches the assertion's
// key and, when set, its comparator, value and field.
func assertContainsStatement(tokens []query.Token, a Assertion) error {
	var want ir.Value
	if a.Value != nil {
		v, err := ir.FromGo(a.Value)
		if err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		want = v
	}

	for _, tok := range tokens {
		s, ok := tok.(query.Statement)
		if !ok || s.Key != a.Key {
			continue
		}
		if a.Comparator != "" && s.Comparator != a.Comparator {
			continue
		}
		if want != nil && !reflect.DeepEqual(want, s.Value) {
			continue
		}
		if a.Field != "" && (s.Ref == nil || s.Ref.Field != a.Field) {
			continue
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertContainsStatement,
		Expected: describeStatement(a, want),
		Actual:   "not found in sequence",
		Tokens:   tokens,
	}
}

func describeStatement(a Assertion, want ir.Value) string {
	parts := []string{a.Key}
	if a.Comparator != "" {
		parts = append(parts, a.Comparator)
	}
	switch {
	case want != nil:
		parts = append(parts, query.FormatLiteral(want))
	case a.Field != "":
		parts = append(parts, a.Field)
	}
	return "statement " + strings.Join(parts, " ")
}

// assertStatementOrder checks that the first statement for each key appears
// in the given order. Other tokens may appear in between.
func assertStatementOrder(tokens []query.Token, a Assertion) error {
	positions := make(map[string]int)
	for i, tok := range tokens {
		s, ok := tok.(query.Statement)
		if !ok {
			continue
		}
		if _, seen := positions[s.Key]; !seen {
			positions[s.Key] = i
		}
	}

	last := -1
	for _, key := range a.Keys {
		pos, ok := positions[key]
		if !ok {
			return &AssertionError{
				Type:     AssertStatementOrder,
				Expected: fmt.Sprintf("statements in order %v", a.Keys),
				Actual:   fmt.Sprintf("no statement for key %q", key),
				Tokens:   tokens,
			}
		}
		if pos < last {
			return &AssertionError{
				Type:     AssertStatementOrder,
				Expected: fmt.Sprintf("statements in order %v", a.Keys),
				Actual:   fmt.Sprintf("key %q appears out of order", key),
				Tokens:   tokens,
			}
		}
		last = pos
	}
	return nil
}

func assertOperatorCount(tokens []query.Token, a Assertion) error {
	count := 0
	for _, tok := range tokens {
		if op, ok := tok.(query.Operator); ok && string(op) == a.Operator {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertOperatorCount,
			Expected: fmt.Sprintf("operator %q exactly %d time(s)", a.Operator, a.Count),
			Actual:   fmt.Sprintf("found %d time(s)", count),
			Tokens:   tokens,
		}
	}
	return nil
}
