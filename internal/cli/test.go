package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/imex/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // golden trace directory
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios through the merge engine.

Each YAML scenario supplies a pattern, stream contents and the expected
items or error code. When a golden trace exists for a scenario
(<golden-dir>/<name>.golden) the trace must match it byte for byte.
The golden directory defaults to "golden" next to the scenarios directory.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  imex test ./testdata/scenarios
  imex test ./testdata/scenarios --filter "unbounded_*"
  imex test ./testdata/scenarios --update
  imex test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden trace directory")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	info, err := os.Stat(scenariosDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %v", err), nil)
	}
	if !info.IsDir() {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("not a directory: %s", scenariosDir), nil)
	}

	paths, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScanError, fmt.Sprintf("failed to find scenarios: %v", err), nil)
	}

	if len(paths) == 0 && !formatter.isJSON() {
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	r := &scenarioRunner{
		goldenDir: opts.GoldenDir,
		update:    opts.Update,
	}
	if r.goldenDir == "" {
		r.goldenDir = filepath.Join(filepath.Dir(filepath.Clean(scenariosDir)), "golden")
	}
	if !formatter.isJSON() {
		r.progress = formatter.Writer
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(paths))}
	for _, path := range paths {
		sr := r.run(path)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	result.Total = len(paths)

	return reportTests(formatter, result)
}

// findScenarioFiles lists the .yaml and .yml files directly in dir, in name
// order, keeping those whose base name matches filter.
func findScenarioFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(entry.Name(), ext)); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// scenarioRunner runs scenario files and checks their golden traces.
type scenarioRunner struct {
	goldenDir string
	update    bool
	progress  io.Writer // per-scenario ✓/✗ lines; nil for JSON output
}

func (r *scenarioRunner) run(path string) ScenarioResult {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return r.fail(filepath.Base(path), fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return r.fail(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}

	trace := harness.FormatTrace(scenario.Name, scenario.Pattern, result)
	note, err := r.golden(scenario.Name, trace)
	if err != nil {
		return r.fail(scenario.Name, err.Error())
	}
	if !result.Pass {
		return r.fail(scenario.Name, result.Errors...)
	}
	return r.pass(scenario.Name, note)
}

// golden writes trace in update mode, otherwise compares it with the stored
// golden file. A scenario without a golden file is checked by its
// expectations alone.
func (r *scenarioRunner) golden(name string, trace []byte) (string, error) {
	path := filepath.Join(r.goldenDir, name+".golden")

	if r.update {
		if err := os.MkdirAll(r.goldenDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, trace, 0644); err != nil {
			return "", fmt.Errorf("failed to write golden file: %w", err)
		}
		return " (golden updated)", nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("golden comparison failed: %w", err)
	}
	if !bytes.Equal(want, trace) {
		return "", errors.New("trace does not match golden file (run with --update to regenerate)")
	}
	return "", nil
}

func (r *scenarioRunner) pass(name, note string) ScenarioResult {
	if r.progress != nil {
		fmt.Fprintf(r.progress, "✓ %s%s\n", name, note)
	}
	return ScenarioResult{Name: name, Pass: true}
}

func (r *scenarioRunner) fail(name string, errs ...string) ScenarioResult {
	if r.progress != nil {
		fmt.Fprintf(r.progress, "✗ %s\n", name)
		for _, e := range errs {
			fmt.Fprintf(r.progress, "  %s\n", e)
		}
	}
	return ScenarioResult{Name: name, Errors: errs}
}

// reportTests prints the summary. Failed scenarios make the command exit 1;
// they have already been reported, so Execute prints nothing more.
func reportTests(f *OutputFormatter, result TestResult) error {
	var failed error
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		failed = &ExitError{Code: ExitFailure, Message: msg, Reported: true}
	}

	if f.isJSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if failed != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeTestFailed, Message: failed.Error()}
		}
		if err := f.encode(resp); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(f.Writer)
	fmt.Fprintf(f.Writer, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if failed == nil {
		fmt.Fprintln(f.Writer, "✓ All scenarios passed")
	}
	return failed
}
