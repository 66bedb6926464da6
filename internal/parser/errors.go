package parser

import (
	"errors"
	"fmt"
)

// ErrCodeSyntax is the error code reported for malformed query text.
const ErrCodeSyntax = "SYNTAX_ERROR"

// SyntaxError reports malformed query text. Pos is the byte offset of the
// offending token.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Message)
}

// Code returns the stable error code.
func (e *SyntaxError) Code() string { return ErrCodeSyntax }

// IsSyntax reports whether err is or wraps a SyntaxError.
func IsSyntax(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

func describe(t token) string {
	if t.tokenType == tkEOF {
		return t.tokenType.String()
	}
	return fmt.Sprintf("%s %q", t.tokenType, t.value)
}
