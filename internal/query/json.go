package query

import (
	"bytes"
	"encoding/json"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

// Document returns q as plain Go values in the object shape downstream
// consumers expect:
//
//	{"tables": [...], "map": {...}, "sort": ..., "limit": ..., "skip": ..., "filters": [...]}
//
// Operators encode as strings and statements as {key, comparator, value}.
// Unwrapped literals encode raw; field references keep their
// {"type": "field", "value": name} tag.
func (q *Query) Document() map[string]any {
	tables := make([]any, len(q.Tables))
	for i, t := range q.Tables {
		tables[i] = t
	}
	m := make(map[string]any, len(q.Map))
	for alias, field := range q.Map {
		m[alias] = field
	}
	filters := make([]any, len(q.Filters))
	for i, tok := range q.Filters {
		filters[i] = tokenDocument(tok)
	}

	doc := map[string]any{
		"tables":  tables,
		"map":     m,
		"filters": filters,
	}
	if q.Sort != nil {
		doc["sort"] = ir.ToGo(q.Sort)
	}
	if q.Limit != nil {
		doc["limit"] = ir.ToGo(q.Limit.Value())
	}
	if q.Skip != nil {
		doc["skip"] = ir.ToGo(q.Skip.Value())
	}
	return doc
}

func tokenDocument(tok Token) any {
	switch t := tok.(type) {
	case Operator:
		return string(t)
	case Statement:
		obj := map[string]any{"key": t.Key, "comparator": t.Comparator}
		switch {
		case t.Ref != nil:
			obj["value"] = ast.EncodeOperand(*t.Ref)
		case t.Value != nil:
			obj["value"] = ir.ToGo(t.Value)
		}
		return obj
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler using Document. Operators and
// comparators such as & and > are not HTML-escaped; json.Marshal on a
// Query escapes them again, an encoder with SetEscapeHTML(false) does not.
func (q *Query) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(q.Document()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ID returns a content-addressed identifier for q. Queries with equal
// tables, map, options and filters have equal IDs.
func (q *Query) ID() (string, error) {
	return ir.ContentID(ir.DomainQuery, q.Document())
}
