package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/parser"
	"github.com/roach88/universql/internal/query"
)

// QueryResult is the payload of a successful parse or normalize.
type QueryResult struct {
	ID    string         `json:"id"`
	Query map[string]any `json:"query"`
	RPN   string         `json:"rpn"`
}

func newQueryResult(q *query.Query) (*QueryResult, error) {
	id, err := q.ID()
	if err != nil {
		return nil, fmt.Errorf("computing query id: %w", err)
	}
	return &QueryResult{
		ID:    id,
		Query: q.Document(),
		RPN:   query.FormatRPN(q.Filters),
	}, nil
}

// outputQuery prints a normalized query and optionally writes it to a file.
func outputQuery(f *OutputFormatter, q *query.Query, outputFile string) error {
	result, err := newQueryResult(q)
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "encoding query", err)
	}
	f.VerboseLog("Normalized query %s: %d table(s), %d filter token(s)", result.ID, len(q.Tables), len(q.Filters))

	if outputFile != "" {
		if err := writeJSONFile(outputFile, result); err != nil {
			_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if f.Format == "json" {
		return f.Success(result)
	}

	w := f.Writer
	fmt.Fprintf(w, "Tables:  %s\n", strings.Join(q.Tables, ", "))
	if len(q.Map) > 0 {
		aliases := make([]string, 0, len(q.Map))
		for alias := range q.Map {
			aliases = append(aliases, alias)
		}
		slices.Sort(aliases)
		pairs := make([]string, len(aliases))
		for i, alias := range aliases {
			pairs[i] = alias + "=" + q.Map[alias]
		}
		fmt.Fprintf(w, "Map:     %s\n", strings.Join(pairs, ", "))
	}
	if q.Sort != nil {
		fmt.Fprintf(w, "Sort:    %s\n", query.FormatLiteral(q.Sort))
	}
	if q.Limit != nil {
		fmt.Fprintf(w, "Limit:   %s\n", query.FormatLiteral(q.Limit.Value()))
	}
	if q.Skip != nil {
		fmt.Fprintf(w, "Skip:    %s\n", query.FormatLiteral(q.Skip.Value()))
	}
	if result.RPN == "" {
		fmt.Fprintln(w, "Filters: (none)")
	} else {
		fmt.Fprintf(w, "Filters: %s\n", result.RPN)
	}
	fmt.Fprintf(w, "ID:      %s\n", result.ID)
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote query to %s\n", outputFile)
	}
	return nil
}

// outputQueryError reports a rejected query. Query errors carry their own
// code; the details point at the offending location when there is one.
func outputQueryError(f *OutputFormatter, err error) error {
	code := query.ErrorCode(err)
	if code == "" {
		code = ErrCodeGeneric
	}
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(ExitFailure, "query rejected", err)
}

func errorDetails(err error) any {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return map[string]any{"offset": syntaxErr.Pos}
	}
	var malformed *query.MalformedFilterError
	if errors.As(err, &malformed) {
		return map[string]any{"path": malformed.Path}
	}
	var decodeErr *ast.DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Path != "" {
		return map[string]any{"path": decodeErr.Path}
	}
	var unknown *query.UnknownOptionError
	if errors.As(err, &unknown) {
		return map[string]any{"option": unknown.Key}
	}
	return nil
}

// writeJSONFile writes v as indented JSON. Indentation is for readers; the
// query ID is computed from canonical JSON, not from this file.
func writeJSONFile(filename string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
