package imex

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes fatal evaluation errors.
type ErrorCode string

const (
	// ErrCodeStreamOutOfRange indicates a pattern references a stream the
	// caller did not supply.
	ErrCodeStreamOutOfRange ErrorCode = "STREAM_OUT_OF_RANGE"

	// ErrCodeStreamRead indicates a stream stopped because of a read failure
	// rather than reaching its end.
	ErrCodeStreamRead ErrorCode = "STREAM_READ_FAILED"
)

// Error is a fatal error raised while iterating a pattern tree.
//
// It terminates the Iterate call that raised it. Items returned by earlier
// calls remain valid.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Stream is the stream index involved.
	Stream int

	// Available is the number of streams supplied (out-of-range errors).
	Available int

	// Err is the underlying cause (read errors).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (stream=%d): %v", e.Code, e.Message, e.Stream, e.Err)
	}
	return fmt.Sprintf("%s: %s (stream=%d)", e.Code, e.Message, e.Stream)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewOutOfRangeError creates an Error for a reference to a missing stream.
func NewOutOfRangeError(stream, available int) *Error {
	return &Error{
		Code:      ErrCodeStreamOutOfRange,
		Message:   fmt.Sprintf("pattern references stream %d but only %d supplied", stream, available),
		Stream:    stream,
		Available: available,
	}
}

// NewReadError creates an Error for a stream that failed mid-read.
func NewReadError(stream int, err error) *Error {
	return &Error{
		Code:    ErrCodeStreamRead,
		Message: "stream read failed",
		Stream:  stream,
		Err:     err,
	}
}

// IsOutOfRange returns true if err is an out-of-range stream reference.
// Uses errors.As to handle wrapped errors.
func IsOutOfRange(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeStreamOutOfRange
	}
	return false
}

// IsReadError returns true if err is a stream read failure.
func IsReadError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeStreamRead
	}
	return false
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
