package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Trace    []Step // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, step := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] stream=%d %q\n", step.Seq, step.Stream, step.Item)
	}

	return buf.String()
}

// assertTraceCount checks that a stream contributed exactly Count items.
func assertTraceCount(trace []Step, assertion Assertion) error {
	stream := *assertion.Stream
	count := 0
	for _, step := range trace {
		if step.Stream == stream {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("stream %d contributes %d items", stream, assertion.Count),
			Actual:   fmt.Sprintf("%d items", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that streams contributed items in the given order.
// Origins don't need to be consecutive (intervening items are allowed).
func assertTraceOrder(trace []Step, assertion Assertion) error {
	want := assertion.Streams
	next := 0
	for _, step := range trace {
		if next < len(want) && step.Stream == want[next] {
			next++
		}
	}

	if next < len(want) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("streams in order %v", want),
			Actual:   fmt.Sprintf("matched %v, then no item from stream %d", want[:next], want[next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertConsumed checks that exactly Count items were read from a stream.
func assertConsumed(result *Result, assertion Assertion) error {
	stream := *assertion.Stream
	if stream < 0 || stream >= len(result.Consumed) {
		return &AssertionError{
			Type:     AssertConsumed,
			Expected: fmt.Sprintf("stream %d consumed %d items", stream, assertion.Count),
			Actual:   fmt.Sprintf("only %d streams", len(result.Consumed)),
			Trace:    result.Trace,
		}
	}

	if got := result.Consumed[stream]; got != assertion.Count {
		return &AssertionError{
			Type:     AssertConsumed,
			Expected: fmt.Sprintf("stream %d consumed %d items", stream, assertion.Count),
			Actual:   fmt.Sprintf("%d items", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceCount, AssertConsumed:
			if assertion.Stream == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a stream", i, assertion.Type)
			} else if assertion.Type == AssertTraceCount {
				err = assertTraceCount(result.Trace, assertion)
			} else {
				err = assertConsumed(result, assertion)
			}
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
