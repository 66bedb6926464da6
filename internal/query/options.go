package query

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/ir"
)

// Count is the result of coercing a limit or skip option.
// Exactly one variant is meaningful: Int when Raw is nil, Raw otherwise.
type Count struct {
	Int int64

	// Raw holds the original value when it could not be read as an integer.
	Raw ir.Value
}

// IsInt reports whether the value was coerced to an integer.
func (c Count) IsInt() bool {
	return c.Raw == nil
}

// Value returns the count as an ir.Value: ir.Int or the raw passthrough.
func (c Count) Value() ir.Value {
	if c.Raw != nil {
		return c.Raw
	}
	return ir.Int(c.Int)
}

// resolveOptions folds the option list into q. Later entries of the same
// type overwrite earlier ones.
func (q *Query) resolveOptions(opts []ast.Option) error {
	for _, opt := range opts {
		switch opt.Type {
		case ast.OptionSort:
			q.Sort = opt.Value
		case ast.OptionLimit:
			c := coerceCount(opt.Value)
			q.Limit = &c
		case ast.OptionSkip:
			c := coerceCount(opt.Value)
			q.Skip = &c
		default:
			return &UnknownOptionError{Key: opt.Type}
		}
	}
	return nil
}

// coerceCount reads v as an integer, falling back to the raw value.
func coerceCount(v ir.Value) Count {
	if n, ok := toInt(v); ok {
		return Count{Int: n}
	}
	if v == nil {
		v = ir.Null{}
	}
	return Count{Raw: v}
}

func toInt(v ir.Value) (int64, bool) {
	switch val := v.(type) {
	case ir.Int:
		return int64(val), true
	case ir.Float:
		f := math.Trunc(float64(val))
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case ir.String:
		return parseIntPrefix(string(val))
	default:
		return 0, false
	}
}

// parseIntPrefix reads the leading integer of s: optional whitespace, an
// optional sign, then decimal digits (or hex digits after 0x). Trailing text
// is ignored, so "12px" reads as 12. It fails when no digits are present or
// the number overflows int64.
func parseIntPrefix(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}

	base := 10
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, s = 16, s[2:]
		isDigit = func(c byte) bool {
			return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		}
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
