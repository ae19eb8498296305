package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/imex/internal/job"
	"github.com/roach88/imex/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Output   string // overrides the job's output

	// IDGenerator allows overriding run ID generation (for testing).
	// If nil, defaults to UUIDv7.
	IDGenerator store.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <job-file>",
		Short: "Run a merge job file",
		Long: `Run a merge described by a YAML (.yaml, .yml) or CUE (.cue) job file.

The job names the pattern, its inputs and optionally an output file, a split
mode and normalization. Relative paths are resolved against the job file's
directory. The job is validated before any input is opened: the pattern must
parse and every stream it references must have an input.

Example:
  imex run nightly.yaml
  imex run merge.cue --db runs.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite history database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (overrides the job)")

	return cmd
}

func runJob(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	j, err := job.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidJob, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded job %q: pattern %q, %d input(s)", j.Name, j.Pattern, len(j.Inputs))

	output := j.Output
	if opts.Output != "" {
		output = opts.Output
	}

	req := mergeRequest{
		Name:      j.Name,
		Pattern:   j.Pattern,
		Inputs:    j.Inputs,
		Output:    output,
		Split:     j.SplitMode(),
		Normalize: j.Normalize,
		Database:  opts.Database,
		IDs:       opts.IDGenerator,
	}
	return runMerge(opts.RootOptions, req, cmd)
}
