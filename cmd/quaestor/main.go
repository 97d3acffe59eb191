package main

import (
	"fmt"
	"os"

	"github.com/quaestor-io/quaestor/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands print their own formatted output; this is the
		// terse stderr line for scripts.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
