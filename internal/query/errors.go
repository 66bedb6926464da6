package query

import (
	"errors"
	"fmt"
)

// Error codes reported by ErrorCode.
const (
	ErrCodeMissingTable    = "MISSING_TABLE"
	ErrCodeUnknownOption   = "UNKNOWN_OPTION"
	ErrCodeMalformedFilter = "MALFORMED_FILTER"
)

// MissingTableError is returned when the query tree names no tables.
type MissingTableError struct{}

func (e *MissingTableError) Error() string {
	return "query must have a table"
}

// Code returns ErrCodeMissingTable.
func (e *MissingTableError) Code() string { return ErrCodeMissingTable }

// UnknownOptionError is returned for an option outside sort, limit and skip.
type UnknownOptionError struct {
	// Key is the offending option type.
	Key string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option in query: %s", e.Key)
}

// Code returns ErrCodeUnknownOption.
func (e *UnknownOptionError) Code() string { return ErrCodeUnknownOption }

// MalformedFilterError is returned for filter trees that have no RPN encoding:
// operations without operands, unsupported operators, nil nodes, or more
// than one root.
type MalformedFilterError struct {
	// Path locates the node, e.g. "filters[0].operands[2]".
	Path string

	// Reason describes what is wrong with the node.
	Reason string
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("malformed filter at %s: %s", e.Path, e.Reason)
}

// Code returns ErrCodeMalformedFilter.
func (e *MalformedFilterError) Code() string { return ErrCodeMalformedFilter }

// IsMissingTable reports whether err is or wraps a MissingTableError.
func IsMissingTable(err error) bool {
	var e *MissingTableError
	return errors.As(err, &e)
}

// IsUnknownOption reports whether err is or wraps an UnknownOptionError.
func IsUnknownOption(err error) bool {
	var e *UnknownOptionError
	return errors.As(err, &e)
}

// IsMalformedFilter reports whether err is or wraps a MalformedFilterError.
func IsMalformedFilter(err error) bool {
	var e *MalformedFilterError
	return errors.As(err, &e)
}

// ErrorCode returns the code of the first error in err's chain that carries
// one (query, parser and decode errors all do), or "" if none does.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
