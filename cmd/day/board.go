package main

import (
	"github.com/amonks/daybook/internal/boardtui"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open an interactive board of today's tasks",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		return boardtui.Run(t)
	})
}
