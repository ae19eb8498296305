package cli

import (
	"errors"

	"github.com/roach88/imex/internal/imex"
	"github.com/roach88/imex/internal/pattern"
)

// Error code constants, unified across all CLI commands.
// Pattern parse errors keep the parser's own E2xx codes, and merge
// failures keep the engine's codes (STREAM_OUT_OF_RANGE, STREAM_READ_FAILED).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Scenario directory scan error
	ErrCodeNotFound    = "E005" // Path not found or unreadable
	ErrCodeWriteFailed = "E007" // Output write error
	ErrCodeDatabase    = "E008" // Run history database error
	ErrCodeInvalidJob  = "E009" // Job file could not be loaded or validated
	ErrCodeInterrupted = "E010" // Merge cancelled before completion
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// errorCode maps an error to its CLI error code.
func errorCode(err error) string {
	var pe *pattern.ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	if code := imex.CodeOf(err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}
