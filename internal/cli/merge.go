package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/imex/internal/imex"
	"github.com/roach88/imex/internal/pattern"
	"github.com/roach88/imex/internal/source"
	"github.com/roach88/imex/internal/store"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Output    string // output file path, "" or "-" for stdout
	Chars     bool   // split inputs into characters instead of lines
	Normalize bool   // NFC-normalize items
	Database  string // record the run in this history database
	Name      string // run name in history

	// IDGenerator allows overriding run ID generation (for testing).
	// If nil, defaults to UUIDv7.
	IDGenerator store.IDGenerator
}

// MergeSummary describes a finished merge.
type MergeSummary struct {
	RunID    string   `json:"run_id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Pattern  string   `json:"pattern"`
	Inputs   []string `json:"inputs"`
	Output   string   `json:"output"`
	Items    int      `json:"items"`
	Consumed []int    `json:"consumed"`
}

// mergeRequest is one merge to execute, from flags or a job file.
type mergeRequest struct {
	Name      string
	Pattern   string
	Inputs    []string
	Output    string
	Split     source.Split
	Normalize bool
	Database  string
	IDs       store.IDGenerator
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge <pattern> <file>...",
		Short: "Merge input files by pattern",
		Long: `Merge input files into one output, taking items in the order the
pattern describes. File i is stream i; "-" reads standard input.

Items are lines by default; --chars makes every character an item. Items
are written one per line. Items merged before a failure are still written.

Exit codes:
  0 - Merge completed
  1 - Merge failed (missing stream, read error, interrupted)
  2 - Command error (bad pattern, missing input, unwritable output)

Examples:
  imex merge "0(12){3}" header.txt left.txt right.txt
  imex merge "(01)*" a.txt b.txt -o merged.txt --db runs.db
  cat words.txt | imex merge "0*1" - trailer.txt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			split := source.SplitLines
			if opts.Chars {
				split = source.SplitChars
			}
			req := mergeRequest{
				Name:      opts.Name,
				Pattern:   args[0],
				Inputs:    args[1:],
				Output:    opts.Output,
				Split:     split,
				Normalize: opts.Normalize,
				Database:  opts.Database,
				IDs:       opts.IDGenerator,
			}
			return runMerge(opts.RootOptions, req, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&opts.Chars, "chars", false, "treat every character as an item")
	cmd.Flags().BoolVar(&opts.Normalize, "normalize", false, "apply Unicode NFC normalization to items")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite history database")
	cmd.Flags().StringVar(&opts.Name, "name", "", "run name for history")

	return cmd
}

// runMerge executes req and reports the outcome.
func runMerge(opts *RootOptions, req mergeRequest, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	root, err := pattern.Parse(req.Pattern)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}
	canonical := pattern.Format(root)
	logger.Debug("pattern parsed", "pattern", canonical, "max_stream", pattern.MaxStream(root))

	toStdout := req.Output == "" || req.Output == "-"
	if !toStdout {
		if in, ok := outputIsInput(req.Output, req.Inputs); ok {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("output %s is also input %s", req.Output, in), nil)
		}
	}

	var st *store.Store
	if req.Database != "" {
		st, err = store.Open(req.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	var srcOpts []source.Option
	if req.Normalize {
		srcOpts = append(srcOpts, source.WithNormalize())
	}
	files, err := source.OpenFiles(req.Inputs, req.Split, cmd.InOrStdin(), srcOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	defer files.Close()

	var out io.Writer = cmd.OutOrStdout()
	if !toStdout {
		f, err := os.Create(req.Output)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to create output: %v", err), nil)
		}
		defer f.Close()
		out = f
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	logger.Info("merge starting", "pattern", canonical, "inputs", len(req.Inputs), "split", string(req.Split))
	m := imex.NewMerger(root, files.Streams...)
	mergeErr := drain(ctx, m, out)
	if mergeErr != nil {
		logger.Debug("merge stopped", "error", mergeErr, "items", m.Count())
	}

	summary := MergeSummary{
		Name:     req.Name,
		Pattern:  canonical,
		Inputs:   req.Inputs,
		Output:   req.Output,
		Items:    m.Count(),
		Consumed: m.Consumed(),
	}
	if toStdout {
		summary.Output = "-"
	}

	if st != nil {
		runID, err := recordRun(ctx, logger, st, req, summary, mergeErr)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to record run: %v", err), nil)
		}
		summary.RunID = runID
		logger.Info("run recorded", "run_id", runID, "db", req.Database)
	}

	if mergeErr != nil {
		return formatter.Fail(ExitFailure, mergeErrorCode(mergeErr), mergeErr.Error(), summary)
	}

	logger.Info("merge complete", "items", summary.Items, "consumed", summary.Consumed)
	if toStdout {
		// Items own stdout; the summary is only logged.
		return nil
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	return formatter.Success(fmt.Sprintf("Merged %d items from %d streams into %s", summary.Items, len(summary.Inputs), summary.Output))
}

// drain writes every merged item to w, one per line, until the merger is
// exhausted, fails or ctx is cancelled.
func drain(ctx context.Context, m *imex.Merger[string], w io.Writer) error {
	bw := bufio.NewWriter(w)
	for {
		if err := ctx.Err(); err != nil {
			return flushAfter(bw, err)
		}
		item, ok, err := m.Next()
		if err != nil {
			return flushAfter(bw, err)
		}
		if !ok {
			break
		}
		if _, err := bw.WriteString(item); err != nil {
			return &writeError{err}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return &writeError{err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &writeError{err}
	}
	return nil
}

// flushAfter flushes the items written before cause and returns cause.
func flushAfter(bw *bufio.Writer, cause error) error {
	if err := bw.Flush(); err != nil {
		return &writeError{err}
	}
	return cause
}

// writeError marks a failure to write merged output.
type writeError struct{ err error }

func (e *writeError) Error() string { return "write output: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

// mergeErrorCode maps a failure from drain to its CLI error code.
func mergeErrorCode(err error) string {
	var we *writeError
	if errors.As(err, &we) {
		return ErrCodeWriteFailed
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeInterrupted
	}
	return errorCode(err)
}

// outputIsInput reports the first input that output refers to. Creating the
// output would truncate that input before it is read.
func outputIsInput(output string, inputs []string) (string, bool) {
	outAbs, err := filepath.Abs(output)
	if err != nil {
		return "", false
	}
	outInfo, statErr := os.Stat(output)
	for _, in := range inputs {
		if in == "-" {
			continue
		}
		if inAbs, err := filepath.Abs(in); err == nil && inAbs == outAbs {
			return in, true
		}
		if statErr != nil {
			continue
		}
		if info, err := os.Stat(in); err == nil && os.SameFile(outInfo, info) {
			return in, true
		}
	}
	return "", false
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// recordRun stores the outcome of a merge in the history database.
func recordRun(ctx context.Context, logger *slog.Logger, st *store.Store, req mergeRequest, summary MergeSummary, mergeErr error) (string, error) {
	run := &store.Run{
		Name:    req.Name,
		Pattern: summary.Pattern,
		Split:   string(req.Split),
		Status:  store.StatusOK,
		Items:   summary.Items,
		Streams: make([]store.RunStream, len(req.Inputs)),
	}
	if mergeErr != nil {
		run.Status = store.StatusError
		run.Error = mergeErr.Error()
	}
	for i, path := range req.Inputs {
		run.Streams[i] = store.RunStream{Index: i, Path: path, Consumed: summary.Consumed[i]}
	}

	// Record even when the merge was interrupted.
	if err := st.RecordRun(context.WithoutCancel(ctx), run, req.IDs); err != nil {
		return "", err
	}
	logger.Debug("run stored", "seq", run.Seq, "status", run.Status)
	return run.ID, nil
}
