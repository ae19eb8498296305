// Command imex merges input streams by an interleave pattern.
package main

import (
	"context"
	"os"

	"github.com/roach88/imex/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
