// Package harness provides conformance testing for merge patterns.
//
// The harness loads scenarios, merges their streams through a parsed pattern,
// records every item in a trace, and checks the outcome against the
// scenario's expectations and assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	pattern: "0(12){3}"
//	split: lines
//	streams:
//	  - "0\n0\n0"
//	  - "1\n1\n1"
//	  - "2\n2\n2"
//	expect: ["0", "1", "2", "1", "2", "1", "2"]
//	assertions:
//	  - type: trace_count
//	    stream: 1
//	    count: 3
//	  - type: trace_order
//	    streams: [0, 1, 2]
//
// Each stream is raw text split into items by the scenario's split mode
// ("lines" by default, or "chars"). A scenario expecting a failure sets
// expect_error to an error code instead of expect:
//
//	expect_error: STREAM_OUT_OF_RANGE
//
// Parse failures use the parser's codes (E201 to E206).
//
// # Assertion Types
//
//   - trace_count: Verifies a stream contributed exactly N items
//   - trace_order: Verifies streams contributed items in the given order
//     (intervening items are allowed)
//   - consumed: Verifies exactly N items were read from a stream
//
// # Golden Traces
//
// RunWithGolden renders the trace as plain text and compares it against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
