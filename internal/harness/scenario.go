package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/imex/internal/source"
)

// Scenario defines a conformance test scenario.
// A scenario merges its streams through a pattern and checks the items
// produced, the error raised, or both.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pattern is the merge pattern text.
	Pattern string `yaml:"pattern"`

	// Split selects how stream text is cut into items: "lines" (default)
	// or "chars".
	Split string `yaml:"split,omitempty"`

	// Streams holds the raw text of each input stream, indexed from 0.
	Streams []string `yaml:"streams"`

	// Expect lists the items the merge must produce, in order.
	// If ExpectError is set, Expect lists the items produced before the error.
	Expect []string `yaml:"expect"`

	// ExpectError is the error code the merge must stop with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the trace.
	// Supported types: trace_count, trace_order, consumed
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates the trace or per-stream consumption.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_count": Check a stream contributed exactly Count items
	// - "trace_order": Check streams contributed in the order of Streams
	// - "consumed": Check exactly Count items were read from a stream
	Type string `yaml:"type"`

	// Stream is the stream index (used by trace_count and consumed).
	Stream *int `yaml:"stream,omitempty"`

	// Count is the expected number (used by trace_count and consumed).
	Count int `yaml:"count,omitempty"`

	// Streams is the expected origin order (used by trace_order).
	Streams []int `yaml:"streams,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertConsumed   = "consumed"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := source.ParseSplit(s.Split); err != nil {
		return err
	}

	if s.Expect == nil && s.ExpectError == "" {
		return fmt.Errorf("expect or expect_error is required")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceCount, AssertConsumed:
		if a.Stream == nil {
			return fmt.Errorf("assertions[%d]: stream is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTraceOrder:
		if len(a.Streams) == 0 {
			return fmt.Errorf("assertions[%d]: streams list is required for trace_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
