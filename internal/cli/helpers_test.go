package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// cliRun holds the captured outcome of one CLI invocation.
type cliRun struct {
	Stdout string
	Stderr string
	Code   int
}

// runCLI executes the root command with args and stdin.
func runCLI(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return cliRun{Stdout: out.String(), Stderr: errOut.String(), Code: code}
}
