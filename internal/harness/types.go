package harness

import (
	"github.com/roach88/universql/internal/query"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Errors contains one message per failed check. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Query is the normalized query, nil when parsing or normalizing failed.
	Query *query.Query `json:"query,omitempty"`

	// Err is the parse, decode or normalize failure, if any.
	Err error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot returns the outcome as plain values for canonical JSON:
// the query document and its RPN rendering on success, the error code and
// message on failure.
func (r *Result) Snapshot(scenarioName string) map[string]any {
	snap := map[string]any{"scenario_name": scenarioName}
	if r.Err != nil {
		snap["error"] = map[string]any{
			"code":    query.ErrorCode(r.Err),
			"message": r.Err.Error(),
		}
		return snap
	}
	if r.Query != nil {
		snap["query"] = r.Query.Document()
		snap["rpn"] = query.FormatRPN(r.Query.Filters)
	}
	return snap
}
