package ast

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/universql/internal/ir"
)

// Value tags used by the document form of a statement value.
const (
	ValueTypeLiteral = "literal"
	ValueTypeField   = "field"
)

// DecodeError reports a document that cannot be turned into a Tree.
type DecodeError struct {
	Path    string // e.g. "filters[0].operands[1]"
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode query tree: %s", e.Message)
	}
	return fmt.Sprintf("decode query tree: %s: %s", e.Path, e.Message)
}

// Code returns the stable error code.
func (e *DecodeError) Code() string { return "DECODE_ERROR" }

func decodeErr(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Decode builds a Tree from a generic document, typically the output of
// decoding JSON, YAML or CUE into map[string]any.
//
// Decode is structural only. A missing or empty "tables" field decodes to a
// Tree with no tables, and unknown option types are kept; the normalizer is
// responsible for rejecting both.
func Decode(doc map[string]any) (*Tree, error) {
	tree := &Tree{}

	tables, err := decodeTables(doc["tables"])
	if err != nil {
		return nil, err
	}
	tree.Tables = tables

	if tree.Map, err = decodeMap(doc["map"]); err != nil {
		return nil, err
	}

	if tree.Options, err = decodeOptions(doc["options"]); err != nil {
		return nil, err
	}

	if raw, ok := doc["filters"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, decodeErr("filters", "expected a list, got %T", raw)
		}
		tree.Filters = make([]Node, 0, len(list))
		for i, step := range list {
			path := fmt.Sprintf("filters[%d]", i)
			// A null root step is a no-op rather than an error
			if step == nil {
				tree.Filters = append(tree.Filters, Empty{})
				continue
			}
			n, err := decodeNode(step, path)
			if err != nil {
				return nil, err
			}
			tree.Filters = append(tree.Filters, n)
		}
	}

	return tree, nil
}

// decodeTables accepts a single table name or a list of names.
// Falsy values (absent, null, false, "") mean "no tables".
func decodeTables(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		if !v {
			return nil, nil
		}
		return nil, decodeErr("tables", "expected table names, got true")
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		tables := make([]string, len(v))
		for i, t := range v {
			s, ok := t.(string)
			if !ok {
				return nil, decodeErr(fmt.Sprintf("tables[%d]", i), "expected a string, got %T", t)
			}
			tables[i] = s
		}
		return tables, nil
	default:
		return nil, decodeErr("tables", "expected table names, got %T", raw)
	}
}

func decodeMap(raw any) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeErr("map", "expected an object, got %T", raw)
	}
	m := make(map[string]string, len(obj))
	for alias, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, decodeErr(fmt.Sprintf("map.%s", alias), "expected a string, got %T", v)
		}
		m[alias] = s
	}
	return m, nil
}

func decodeOptions(raw any) ([]Option, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, decodeErr("options", "expected a list, got %T", raw)
	}

	opts := make([]Option, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("options[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, decodeErr(path, "expected an object, got %T", item)
		}
		typ, ok := obj["type"].(string)
		if !ok {
			return nil, decodeErr(path+".type", "expected a string, got %T", obj["type"])
		}
		val, err := ir.FromGo(obj["value"])
		if err != nil {
			return nil, decodeErr(path+".value", "%v", err)
		}
		opts = append(opts, Option{Type: typ, Value: val})
	}
	return opts, nil
}

// decodeNode turns one filter step into a Node. An object with an
// "operands" key is an Operation; an empty object is Empty; any other
// object is a Statement.
func decodeNode(raw any, path string) (Node, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeErr(path, "filter step must be an object, got %T", raw)
	}

	if rawOperands, isOp := obj["operands"]; isOp {
		if err := checkFields(obj, path, "operator", "operands"); err != nil {
			return nil, err
		}
		op := &Operation{}
		if rawOperator, ok := obj["operator"]; ok && rawOperator != nil {
			s, ok := rawOperator.(string)
			if !ok {
				return nil, decodeErr(path+".operator", "expected a string, got %T", rawOperator)
			}
			op.Operator = s
		}

		list, ok := rawOperands.([]any)
		if !ok && rawOperands != nil {
			return nil, decodeErr(path+".operands", "expected a list, got %T", rawOperands)
		}
		op.Operands = make([]Node, 0, len(list))
		for i, child := range list {
			n, err := decodeNode(child, fmt.Sprintf("%s.operands[%d]", path, i))
			if err != nil {
				return nil, err
			}
			op.Operands = append(op.Operands, n)
		}
		return op, nil
	}

	if len(obj) == 0 {
		return Empty{}, nil
	}

	if err := checkFields(obj, path, "key", "comparator", "value"); err != nil {
		return nil, err
	}
	switch k := obj["key"].(type) {
	case nil:
		return nil, decodeErr(path+".key", "statement needs a key")
	case string:
		if k == "" {
			return nil, decodeErr(path+".key", "statement needs a non-empty key")
		}
	}

	stmt := &Statement{}
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"key", &stmt.Key},
		{"comparator", &stmt.Comparator},
	} {
		v, present := obj[field.name]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, decodeErr(path+"."+field.name, "expected a string, got %T", v)
		}
		*field.dst = s
	}

	if v, present := obj["value"]; present {
		operand, err := decodeOperand(v, path+".value")
		if err != nil {
			return nil, err
		}
		stmt.Value = operand
	}
	return stmt, nil
}

// checkFields rejects keys outside allowed so no part of a step is dropped.
func checkFields(obj map[string]any, path string, allowed ...string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(allowed, k) {
			return decodeErr(path+"."+k, "unknown filter step field (want one of %s)", strings.Join(allowed, ", "))
		}
	}
	return nil
}

// decodeOperand recognizes the tagged forms {"type":"literal","value":V} and
// {"type":"field","value":"name"}. Anything else is an implicit literal.
func decodeOperand(raw any, path string) (Operand, error) {
	if obj, ok := raw.(map[string]any); ok {
		if tag, ok := obj["type"].(string); ok {
			switch tag {
			case ValueTypeLiteral:
				v, err := ir.FromGo(obj["value"])
				if err != nil {
					return nil, decodeErr(path, "%v", err)
				}
				return Literal{Value: v}, nil
			case ValueTypeField:
				name, ok := obj["value"].(string)
				if !ok || name == "" {
					return nil, decodeErr(path, "field reference needs a non-empty string value")
				}
				return FieldRef{Field: name}, nil
			}
		}
	}

	v, err := ir.FromGo(raw)
	if err != nil {
		return nil, decodeErr(path, "%v", err)
	}
	return Literal{Value: v}, nil
}
