package pattern

import (
	"errors"
	"fmt"
)

// Parse error codes. They share the numbering space of the CLI error codes.
const (
	ErrCodeUnexpectedChar    = "E201" // Character outside the grammar
	ErrCodeUnclosedGroup     = "E202" // '(' without matching ')'
	ErrCodeUnmatchedClose    = "E203" // ')' without matching '('
	ErrCodeMissingTarget     = "E204" // Quantifier with nothing to repeat
	ErrCodeStackedQuantifier = "E205" // Second quantifier on one element
	ErrCodeBadCount          = "E206" // Malformed {n}
)

// ParseError reports a malformed pattern with the byte offset of the problem.
type ParseError struct {
	Code    string
	Offset  int
	Message string
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern %q: offset %d: %s: %s", e.Pattern, e.Offset, e.Code, e.Message)
}

// IsParseError returns true if err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
