package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a day's completion summary",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show everything that happened on a day",
	Long:  "Show a day's summary together with its tasks, active goals, events and wellness averages.",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

var (
	summaryDate  string
	summaryJSON  bool
	snapshotDate string
	snapshotJSON bool
)

func init() {
	rootCmd.AddCommand(summaryCmd, snapshotCmd)

	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Day to summarize (YYYY-MM-DD, default today)")
	listflags.AddJSONFlag(summaryCmd, &summaryJSON)
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "Day to show (YYYY-MM-DD, default today)")
	listflags.AddJSONFlag(snapshotCmd, &snapshotJSON)
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, err := parseDateFlag("date", summaryDate)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		s, err := t.Summary(d)
		return present(s, err, func(s summary.DailySummary) error {
			if summaryJSON {
				return encodeJSONToStdout(s)
			}
			fmt.Print(formatSummary(s))
			return nil
		})
	})
}

func formatSummary(s summary.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary for %s\n", s.Date)
	fmt.Fprintf(&b, "Scheduled: %d\n", len(s.Scheduled))
	fmt.Fprintf(&b, "Completed: %d (%.0f%%)\n", len(s.Completed), s.CompletionRate*100)
	if len(s.CategoryBreakdown) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(s.CategoryBreakdown))
	for name := range s.CategoryBreakdown {
		names = append(names, name)
	}
	slices.Sort(names)
	builder := ui.NewTableBuilder([]string{"CATEGORY", "COMPLETED"}, len(names))
	for _, name := range names {
		builder.AddRow(name, fmt.Sprintf("%d", s.CategoryBreakdown[name]))
	}
	b.WriteString("\n")
	b.WriteString(builder.String())
	return b.String()
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	d, err := parseDateFlag("date", snapshotDate)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		snap, err := t.Snapshot(d)
		if err != nil {
			return present(snap, err, nil)
		}
		if snapshotJSON {
			return encodeJSONToStdout(snap)
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}

		fmt.Print(formatSummary(snap.Summary))
		if snap.Overdue > 0 {
			fmt.Printf("Overdue:   %d\n", snap.Overdue)
		}

		fmt.Println("\nTasks")
		if len(snap.Tasks) == 0 {
			fmt.Println("  none")
		} else {
			fmt.Print(formatInstanceTable(snap.Tasks, index, snap.Day()))
		}

		fmt.Println("\nGoals")
		if len(snap.Goals) == 0 {
			fmt.Println("  none")
		} else {
			fmt.Print(formatGoalTable(snap.Goals))
		}

		fmt.Println("\nEvents")
		if len(snap.Events) == 0 {
			fmt.Println("  none")
		} else {
			fmt.Print(formatEventTable(snap.Events, index))
		}

		fmt.Println("\nWellness")
		w := snap.Wellness
		if w.Entries == 0 {
			fmt.Println("  none")
			return nil
		}
		fmt.Printf("  %d %s: mood %.1f, energy %.1f, stress %.1f, sleep %.1fh\n",
			w.Entries, pluralize(w.Entries, "entry", "entries"), w.Mood, w.Energy, w.Stress, w.SleepHours)
		return nil
	})
}
