package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/imex/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string // optional - show one run in detail
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded merge runs",
		Long: `List merge runs recorded with --db, newest first.

Each run records its pattern, status, item count and how many items were
consumed from each input. Use --run to show a single run.

Examples:
  imex history --db runs.db
  imex history --db runs.db --limit 5 --format json
  imex history --db runs.db --run 0190f0b2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run by ID")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Opening would create an empty database; a missing one is a typo.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
		runs = []store.Run{*run}
	} else {
		runs, err = st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
	}

	return formatter.Render(HistoryResult{Runs: runs}, func(w io.Writer) {
		if opts.RunID != "" {
			writeRunDetail(w, runs[0])
			return
		}
		writeRunList(w, runs)
	})
}

func writeRunList(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		line := fmt.Sprintf("[%d] %s %-5s items=%d pattern=%q", r.Seq, r.ID, r.Status, r.Items, r.Pattern)
		if r.Name != "" {
			line += " name=" + r.Name
		}
		fmt.Fprintln(w, line)
	}
}

func writeRunDetail(w io.Writer, r store.Run) {
	fmt.Fprintf(w, "Run: %s\n", r.ID)
	fmt.Fprintf(w, "Seq: %d\n", r.Seq)
	if r.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", r.Name)
	}
	fmt.Fprintf(w, "Pattern: %s\n", r.Pattern)
	fmt.Fprintf(w, "Split: %s\n", r.Split)
	fmt.Fprintf(w, "Status: %s\n", r.Status)
	fmt.Fprintf(w, "Items: %d\n", r.Items)
	if r.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	}
	fmt.Fprintln(w, "Streams:")
	for _, s := range r.Streams {
		fmt.Fprintf(w, "  [%d] %s consumed=%d\n", s.Index, s.Path, s.Consumed)
	}
}
