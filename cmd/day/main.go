// Package main implements the day CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and returns the process exit code.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		var presented presentedError
		if !errors.As(err, &presented) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return exitCode(err)
	}
	return 0
}

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:           "day",
	Short:         "Daybook - plan today's tasks, track goals, and review each day",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log scheduling, cascades, and goal progress to stderr")
}
