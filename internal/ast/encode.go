package ast

import "github.com/roach88/universql/internal/ir"

// Encode converts a Tree into the generic document form accepted by Decode.
// Literal operands are always written in their tagged form.
func Encode(t *Tree) map[string]any {
	doc := map[string]any{}
	if len(t.Tables) > 0 {
		tables := make([]any, len(t.Tables))
		for i, name := range t.Tables {
			tables[i] = name
		}
		doc["tables"] = tables
	}
	if t.Map != nil {
		m := make(map[string]any, len(t.Map))
		for alias, field := range t.Map {
			m[alias] = field
		}
		doc["map"] = m
	}
	if len(t.Options) > 0 {
		opts := make([]any, len(t.Options))
		for i, o := range t.Options {
			opts[i] = map[string]any{"type": o.Type, "value": ir.ToGo(o.Value)}
		}
		doc["options"] = opts
	}
	if len(t.Filters) > 0 {
		filters := make([]any, len(t.Filters))
		for i, n := range t.Filters {
			filters[i] = EncodeNode(n)
		}
		doc["filters"] = filters
	}
	return doc
}

// EncodeNode converts a single filter node into its document form.
func EncodeNode(n Node) any {
	switch node := n.(type) {
	case *Operation:
		operands := make([]any, len(node.Operands))
		for i, child := range node.Operands {
			operands[i] = EncodeNode(child)
		}
		return map[string]any{"operator": node.Operator, "operands": operands}
	case *Statement:
		obj := map[string]any{"key": node.Key, "comparator": node.Comparator}
		if node.Value != nil {
			obj["value"] = EncodeOperand(node.Value)
		}
		return obj
	case Empty:
		return map[string]any{}
	default:
		return nil
	}
}

// EncodeOperand returns the tagged document form of an operand.
func EncodeOperand(o Operand) map[string]any {
	switch v := o.(type) {
	case Literal:
		return map[string]any{"type": ValueTypeLiteral, "value": ir.ToGo(v.Value)}
	case FieldRef:
		return map[string]any{"type": ValueTypeField, "value": v.Field}
	default:
		return nil
	}
}
