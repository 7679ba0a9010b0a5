// Command wsl-script-runner is a Flow Launcher plugin that lists, runs and edits
// shell scripts kept in a directory inside WSL.
//
// The launcher starts one process per query or action and passes a single JSON
// request as the first argument. The process writes exactly one JSON line to
// stdout and exits.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func init() {
	// The launcher may start us without a console; never block on the explorer prompt.
	cobra.MousetrapHelpText = ""
}

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

// runCLI executes the command line and returns the process exit status.
func runCLI(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fprintf(stderr, "Error: %v\n", err)
		if a.code == 0 {
			a.code = 1
		}
	}
	return a.code
}
