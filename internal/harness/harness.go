package harness

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/imex/internal/imex"
	"github.com/roach88/imex/internal/pattern"
	"github.com/roach88/imex/internal/source"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Parse the pattern (a parse failure ends the run with its code)
// 2. Split each stream's text into items
// 3. Merge until exhaustion or error, tracing every item
// 4. Compare against expect/expect_error and evaluate assertions
//
// The returned error is reserved for scenarios that cannot be executed at
// all. Merge failures are part of the Result.
func Run(scenario *Scenario) (*Result, error) {
	split, err := source.ParseSplit(scenario.Split)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	execute(scenario.Pattern, split, scenario.Streams, result)

	for _, msg := range checkExpectations(scenario, result) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// execute merges texts through patternText and fills the trace.
func execute(patternText string, split source.Split, texts []string, result *Result) {
	root, err := pattern.Parse(patternText)
	if err != nil {
		result.Err = err
		result.Code = codeOf(err)
		return
	}

	streams := make([]imex.Stream[string], len(texts))
	for i, text := range texts {
		streams[i] = source.New(strings.NewReader(text), split)
	}

	m := imex.NewMerger(root, streams...)
	for item, err := range m.All() {
		if err != nil {
			result.Err = err
			result.Code = codeOf(err)
			break
		}
		result.Trace = append(result.Trace, Step{
			Seq:    m.Count(),
			Stream: m.Origin(),
			Item:   item,
		})
	}
	result.Consumed = m.Consumed()
}

// codeOf extracts the error code from a merge or parse error.
func codeOf(err error) string {
	if code := imex.CodeOf(err); code != "" {
		return string(code)
	}
	var pe *pattern.ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "UNKNOWN"
}

// checkExpectations compares the result against expect and expect_error.
func checkExpectations(scenario *Scenario, result *Result) []string {
	var msgs []string

	switch {
	case scenario.ExpectError == "" && result.Err != nil:
		msgs = append(msgs, fmt.Sprintf("unexpected error: %v", result.Err))
	case scenario.ExpectError != "" && result.Err == nil:
		msgs = append(msgs, fmt.Sprintf("expected error %s, merge completed", scenario.ExpectError))
	case scenario.ExpectError != "" && result.Code != scenario.ExpectError:
		msgs = append(msgs, fmt.Sprintf("expected error %s, got %s: %v", scenario.ExpectError, result.Code, result.Err))
	}

	if scenario.Expect != nil {
		if got := result.Items(); !slices.Equal(got, scenario.Expect) {
			msgs = append(msgs, fmt.Sprintf("items mismatch:\n  expected: %q\n  actual:   %q", scenario.Expect, got))
		}
	}

	return msgs
}
