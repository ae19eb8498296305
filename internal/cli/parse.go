package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/imex/internal/pattern"
)

// ParseResult describes a parsed pattern.
type ParseResult struct {
	Pattern   string       `json:"pattern"`
	Canonical string       `json:"canonical"`
	Streams   int          `json:"streams"` // number of streams the pattern needs
	Tree      pattern.Node `json:"tree"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Check a pattern and show its structure",
		Long: `Parse a pattern and print its canonical form, the number of streams it
needs and its tree. A malformed pattern is reported with its error code and
byte offset.

Example:
  imex parse "0(12){3}"
  imex parse "0*(12)*" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	root, err := pattern.Parse(text)
	if err != nil {
		var details any
		var pe *pattern.ParseError
		if errors.As(err, &pe) {
			details = map[string]int{"offset": pe.Offset}
		}
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), details)
	}

	result := ParseResult{
		Pattern:   text,
		Canonical: pattern.Format(root),
		Streams:   pattern.MaxStream(root) + 1,
		Tree:      pattern.Describe(root),
	}

	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "pattern: %s\n", result.Canonical)
		fmt.Fprintf(w, "streams: %d\n", result.Streams)
		fmt.Fprint(w, pattern.Tree(root))
	})
}
