package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// FormatTrace renders a result as the plain-text golden trace:
//
//	scenario: <name>
//	pattern: <pattern>
//	<seq> stream=<index> item=<quoted item>
//	...
//	consumed: [<per-stream counts>]
//	result: ok items=<n> | error <code>
//
// The output is deterministic for a given scenario.
func FormatTrace(name, patternText string, result *Result) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "pattern: %s\n", patternText)
	for _, step := range result.Trace {
		fmt.Fprintf(&buf, "%d stream=%d item=%q\n", step.Seq, step.Stream, step.Item)
	}
	fmt.Fprintf(&buf, "consumed: %v\n", result.Consumed)
	if result.Err != nil {
		fmt.Fprintf(&buf, "result: error %s\n", result.Code)
	} else {
		fmt.Fprintf(&buf, "result: ok items=%d\n", len(result.Trace))
	}

	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can inspect it further. Test failure (via
// goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, scenario.Pattern, result)
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name, patternText string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, FormatTrace(name, patternText, result))
}
