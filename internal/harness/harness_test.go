package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/universql/internal/ir"
	"github.com/roach88/universql/internal/query"
)

func ptr[T any](v T) *T { return &v }

func TestRun_Pass(t *testing.T) {
	s := &Scenario{
		Name:        "pass",
		Description: "all checks hold",
		Query:       "SELECT * FROM a, b WHERE x = 1 & y = 'z' SORT x LIMIT 3.9 SKIP '-2'",
		Expect: &Expectation{
			Tables: []string{"a", "b"},
			Map:    map[string]string{},
			RPN:    ptr("(y = 'z') (x = 1) &"),
			Sort:   []any{"x"},
			Limit:  3,
			Skip:   -2,
		},
		Assertions: []Assertion{
			{Type: AssertRPNValid},
			{Type: AssertContainsStatement, Key: "y", Comparator: "=", Value: "z"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Query)
	assert.NoError(t, result.Err)
}

func TestRun_ExpectationFailures(t *testing.T) {
	s := &Scenario{
		Name:        "fail",
		Description: "every expectation is wrong",
		Query:       "FROM a WHERE x = 1",
		Expect: &Expectation{
			Tables: []string{"b"},
			Map:    map[string]string{"k": "v"},
			RPN:    ptr("(x = 2)"),
			Sort:   "x",
			Limit:  10,
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"tables: expected [b], got [a]",
		"map: expected map[k:v], got map[]",
		`rpn: expected "(x = 2)", got "(x = 1)"`,
		"sort: expected 'x', got nothing",
		"limit: expected 10, got nothing",
	}, result.Errors)
}

func TestRun_ValueMismatch(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "limit differs",
		Query:       "FROM a LIMIT abc",
		Expect:      &Expectation{Limit: 5},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"limit: expected 5, got 'abc'"}, result.Errors)
}

func TestRun_ExpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "missing",
		Description: "no table",
		Query:       "SELECT a",
		Expect:      &Expectation{Error: query.ErrCodeMissingTable},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.True(t, query.IsMissingTable(result.Err))
	assert.Nil(t, result.Query)

	s.Expect.Error = query.ErrCodeUnknownOption
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error UNKNOWN_OPTION, got MISSING_TABLE")

	s.Query = "FROM t"
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"expected error UNKNOWN_OPTION, got success"}, result.Errors)
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "boom",
		Description: "syntax error nobody expected",
		Query:       "FROM t WHERE",
		Assertions:  []Assertion{{Type: AssertRPNValid}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error [SYNTAX_ERROR]")
}

func TestRun_AST(t *testing.T) {
	s := &Scenario{
		Name:        "ast",
		Description: "tree document input",
		AST: map[string]any{
			"tables": []any{"t"},
			"filters": []any{map[string]any{
				"operator": "|",
				"operands": []any{
					map[string]any{"key": "a", "comparator": "=", "value": 1},
					map[string]any{"key": "b", "comparator": "=", "value": map[string]any{"type": "field", "value": "c"}},
				},
			}},
		},
		Assertions: []Assertion{
			{Type: AssertStatementOrder, Keys: []string{"b", "a"}},
			{Type: AssertContainsStatement, Key: "b", Field: "c"},
			{Type: AssertOperatorCount, Operator: "|", Count: 1},
		},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, ir.Int(1), result.Query.Filters[1].(query.Statement).Value)
}

func TestRun_InvalidScenario(t *testing.T) {
	_, err := Run(nil)
	require.Error(t, err)

	_, err = Run(&Scenario{Name: "x", Description: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestResult_Snapshot(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "snap",
		Description: "snapshot",
		Query:       "FROM t WHERE a = 1 LIMIT 2",
		Expect:      &Expectation{},
	})
	require.NoError(t, err)

	data, err := SnapshotJSON("snap", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"query":{"filters":[{"comparator":"=","key":"a","value":1}],"limit":2,"map":{},"tables":["t"]},"rpn":"(a = 1)","scenario_name":"snap"}`,
		string(data))

	result, err = Run(&Scenario{
		Name:        "snap",
		Description: "snapshot",
		Query:       "FROM t OFFSET 1",
		Expect:      &Expectation{Error: query.ErrCodeUnknownOption},
	})
	require.NoError(t, err)
	data, err = SnapshotJSON("snap", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"error":{"code":"UNKNOWN_OPTION","message":"unknown option in query: offset"},"scenario_name":"snap"}`,
		string(data))
}
