package main

import (
	"fmt"

	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/tracker"
	"github.com/amonks/daybook/wellness"
	"github.com/spf13/cobra"
)

var wellnessCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Log mood, energy, stress and sleep",
}

var wellnessLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a wellness entry",
	Long: `Record a wellness entry. Scores run from 1 to 10; omitted fields are
left unrecorded and do not count toward the day's averages.`,
	Args: cobra.NoArgs,
	RunE: runWellnessLog,
}

var wellnessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wellness entries",
	Args:  cobra.NoArgs,
	RunE:  runWellnessList,
}

var wellnessDeleteCmd = &cobra.Command{
	Use:   "delete ENTRY...",
	Short: "Delete wellness entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWellnessDelete,
}

var (
	wellnessLogMood   int
	wellnessLogEnergy int
	wellnessLogStress int
	wellnessLogSleep  float64
	wellnessLogNotes  string
	wellnessLogDate   string

	wellnessListDate string
	wellnessListAll  bool
	wellnessListJSON bool
)

func init() {
	rootCmd.AddCommand(wellnessCmd)
	wellnessCmd.AddCommand(wellnessLogCmd, wellnessListCmd, wellnessDeleteCmd)

	wellnessLogCmd.Flags().IntVarP(&wellnessLogMood, "mood", "m", 0, "Mood (1-10)")
	wellnessLogCmd.Flags().IntVarP(&wellnessLogEnergy, "energy", "e", 0, "Energy (1-10)")
	wellnessLogCmd.Flags().IntVarP(&wellnessLogStress, "stress", "s", 0, "Stress (1-10)")
	wellnessLogCmd.Flags().Float64Var(&wellnessLogSleep, "sleep", 0, "Hours slept")
	wellnessLogCmd.Flags().StringVarP(&wellnessLogNotes, "notes", "n", "", "Free-form notes")
	wellnessLogCmd.Flags().StringVar(&wellnessLogDate, "date", "", "Day the entry is for (YYYY-MM-DD, default today)")

	wellnessListCmd.Flags().StringVar(&wellnessListDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	listflags.AddAllFlag(wellnessListCmd, &wellnessListAll, "Include entries from every day")
	listflags.AddJSONFlag(wellnessListCmd, &wellnessListJSON)
}

func runWellnessLog(cmd *cobra.Command, args []string) error {
	d, err := parseDateFlag("date", wellnessLogDate)
	if err != nil {
		return err
	}
	opts := wellness.Options{
		Mood:   wellnessLogMood,
		Energy: wellnessLogEnergy,
		Stress: wellnessLogStress,
		Notes:  wellnessLogNotes,
	}
	if cmd.Flags().Changed("sleep") {
		sleep := wellnessLogSleep
		opts.SleepHours = &sleep
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		entry, err := t.LogWellness(d, opts)
		return present(entry, err, func(e wellness.Entry) error {
			fmt.Printf("Logged wellness %s for %s\n", highlightOne(e.ID), e.Date)
			return nil
		})
	})
}

func runWellnessList(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var d day.Date
		if !wellnessListAll {
			parsed, err := parseDateArg("date", wellnessListDate, t.Today())
			if err != nil {
				return err
			}
			d = parsed
		}
		entries, err := t.ListWellness(d)
		return present(entries, err, func(entries []wellness.Entry) error {
			if wellnessListJSON {
				if entries == nil {
					entries = []wellness.Entry{}
				}
				return encodeJSONToStdout(entries)
			}
			if len(entries) == 0 {
				printEmpty("wellness entries")
				return nil
			}
			fmt.Print(formatWellnessTable(entries))
			return nil
		})
	})
}

func formatWellnessTable(entries []wellness.Entry) string {
	idList := make([]string, 0, len(entries))
	for _, e := range entries {
		idList = append(idList, e.ID)
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "DATE", "MOOD", "ENERGY", "STRESS", "SLEEP", "NOTES"}, len(entries))
	for _, e := range entries {
		notes := e.Notes
		if notes == "" {
			notes = "-"
		}
		builder.AddRow(
			highlight(e.ID),
			e.Date.String(),
			ui.FormatScore(e.Mood),
			ui.FormatScore(e.Energy),
			ui.FormatScore(e.Stress),
			ui.FormatHours(e.SleepHours),
			ui.TruncateTableCell(notes),
		)
	}
	return builder.String()
}

func runWellnessDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var failures []error
		for _, ref := range args {
			deleted, err := t.DeleteWellness(ref)
			if err := present(deleted, err, func(e wellness.Entry) error {
				fmt.Printf("Deleted wellness entry %s for %s\n", highlightOne(e.ID), e.Date)
				return nil
			}); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}
