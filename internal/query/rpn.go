package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/universql/internal/ir"
)

// CheckRPN verifies that tokens can be evaluated by a two-operand stack
// machine: every Operator finds two pending results and exactly one result
// remains at the end. An empty sequence is valid (no filter).
func CheckRPN(tokens []Token) error {
	depth := 0
	for i, tok := range tokens {
		switch t := tok.(type) {
		case Statement:
			depth++
		case Operator:
			if depth < 2 {
				return fmt.Errorf("operator %q at position %d needs two operands, have %d", string(t), i, depth)
			}
			depth--
		default:
			return fmt.Errorf("unknown token %T at position %d", tok, i)
		}
	}

	if len(tokens) > 0 && depth != 1 {
		return fmt.Errorf("sequence leaves %d results on the stack, want 1", depth)
	}
	return nil
}

// FormatRPN renders tokens on one line, statements in parentheses:
//
//	(age > 21) (name = 'bob') &
func FormatRPN(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		switch t := tok.(type) {
		case Statement:
			parts[i] = "(" + t.String() + ")"
		case Operator:
			parts[i] = string(t)
		}
	}
	return strings.Join(parts, " ")
}

func (s Statement) String() string {
	var b strings.Builder
	b.WriteString(s.Key)
	if s.Comparator != "" {
		b.WriteByte(' ')
		b.WriteString(s.Comparator)
	}
	switch {
	case s.Ref != nil:
		b.WriteByte(' ')
		b.WriteString(s.Ref.Field)
	case s.Value != nil:
		b.WriteByte(' ')
		b.WriteString(FormatLiteral(s.Value))
	}
	return b.String()
}

// FormatLiteral renders a literal in query-text syntax: strings in single
// quotes, arrays in brackets.
func FormatLiteral(v ir.Value) string {
	switch val := v.(type) {
	case ir.String:
		return quote(string(val))
	case ir.Int:
		return strconv.FormatInt(int64(val), 10)
	case ir.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case ir.Bool:
		return strconv.FormatBool(bool(val))
	case ir.Null:
		return "null"
	case ir.Array:
		elems := make([]string, len(val))
		for i, e := range val {
			elems[i] = FormatLiteral(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ir.Object:
		data, err := ir.MarshalCanonical(val)
		if err != nil {
			return "{?}"
		}
		return string(data)
	default:
		return "?"
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`)
	return "'" + r.Replace(s) + "'"
}
