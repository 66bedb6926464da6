package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one input and the checks
// that its normalized form must pass.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is query text fed to the parser. Exactly one of Query and AST
	// must be set.
	Query string `yaml:"query,omitempty"`

	// AST is a query tree document in the form accepted by ast.Decode.
	AST map[string]any `yaml:"ast,omitempty"`

	// Expect holds whole-result expectations.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Assertions hold targeted checks on the filter sequence.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation describes the expected outcome. Unset fields are not checked.
type Expectation struct {
	// Error is the expected error code, e.g. "MISSING_TABLE". When set the
	// scenario passes only if normalization fails with that code.
	Error string `yaml:"error,omitempty"`

	// RPN is the expected query.FormatRPN rendering of the filters.
	RPN *string `yaml:"rpn,omitempty"`

	Tables []string          `yaml:"tables,omitempty"`
	Map    map[string]string `yaml:"map,omitempty"`
	Sort   any               `yaml:"sort,omitempty"`
	Limit  any               `yaml:"limit,omitempty"`
	Skip   any               `yaml:"skip,omitempty"`
}

// Assertion is a targeted check on the filter sequence.
type Assertion struct {
	// Type specifies the assertion type:
	// - "rpn_valid": sequence is evaluable
	// - "contains_statement": statement with Key appears
	// - "statement_order": statements with Keys appear in order
	// - "operator_count": Operator appears exactly Count times
	Type string `yaml:"type"`

	// Key, Comparator, Value and Field select a statement (contains_statement).
	// Comparator, Value and Field are optional; Field matches a field
	// reference operand.
	Key        string `yaml:"key,omitempty"`
	Comparator string `yaml:"comparator,omitempty"`
	Value      any    `yaml:"value,omitempty"`
	Field      string `yaml:"field,omitempty"`

	// Keys is the expected statement order (statement_order).
	Keys []string `yaml:"keys,omitempty"`

	// Operator and Count are used by operator_count.
	Operator string `yaml:"operator,omitempty"`
	Count    int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRPNValid          = "rpn_valid"
	AssertContainsStatement = "contains_statement"
	AssertStatementOrder    = "statement_order"
	AssertOperatorCount     = "operator_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with the same checks as LoadScenario.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Query == "" && s.AST == nil:
		return fmt.Errorf("one of query or ast is required")
	case s.Query != "" && s.AST != nil:
		return fmt.Errorf("query and ast are mutually exclusive")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil && s.Expect.Error != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with an expected error")
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertRPNValid:
		case AssertContainsStatement:
			if a.Key == "" {
				return fmt.Errorf("assertions[%d]: contains_statement requires key", i)
			}
		case AssertStatementOrder:
			if len(a.Keys) == 0 {
				return fmt.Errorf("assertions[%d]: statement_order requires keys", i)
			}
		case AssertOperatorCount:
			if a.Operator == "" {
				return fmt.Errorf("assertions[%d]: operator_count requires operator", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
