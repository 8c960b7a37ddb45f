package main

import (
	"fmt"
	"os"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/event"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventCreate,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Args:  cobra.NoArgs,
	RunE:  runEventList,
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete EVENT...",
	Short: "Delete events",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEventDelete,
}

var (
	eventCreateDate        string
	eventCreateEnd         string
	eventCreateLocation    string
	eventCreateCategory    string
	eventCreateDescription string

	eventListDate string
	eventListAll  bool
	eventListJSON bool
)

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventCreateCmd, eventListCmd, eventDeleteCmd)

	addFlagAliases(eventCreateCmd)
	eventCreateCmd.Flags().StringVar(&eventCreateDate, "date", "", "Day of the event (YYYY-MM-DD, default today)")
	eventCreateCmd.Flags().StringVar(&eventCreateEnd, "end", "", "Last day of a multi-day event (YYYY-MM-DD)")
	eventCreateCmd.Flags().StringVarP(&eventCreateLocation, "location", "l", "", "Where it happens")
	eventCreateCmd.Flags().StringVarP(&eventCreateCategory, "category", "c", "", "Category name or id prefix")
	eventCreateCmd.Flags().StringVarP(&eventCreateDescription, "description", "d", "", "Description (use '-' to read from stdin)")

	eventListCmd.Flags().StringVar(&eventListDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	listflags.AddAllFlag(eventListCmd, &eventListAll, "Include events on every day")
	listflags.AddJSONFlag(eventListCmd, &eventListJSON)
}

func runEventCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(eventCreateDescription, os.Stdin)
		if err != nil {
			return err
		}
		eventCreateDescription = desc
	}
	end, err := parseDateFlag("end date", eventCreateEnd)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		date, err := parseDateArg("date", eventCreateDate, t.Today())
		if err != nil {
			return err
		}
		created, err := t.CreateEvent(tracker.EventInput{
			Name:        args[0],
			Description: eventCreateDescription,
			Category:    eventCreateCategory,
			Date:        date,
			EndDate:     end,
			Location:    eventCreateLocation,
		})
		return present(created, err, func(e event.Event) error {
			fmt.Printf("Created event %s: %s on %s\n", highlightOne(e.ID()), e.Info.Name, formatEventDates(e))
			return nil
		})
	})
}

func runEventList(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var d day.Date
		if !eventListAll {
			parsed, err := parseDateArg("date", eventListDate, t.Today())
			if err != nil {
				return err
			}
			d = parsed
		}
		events, err := t.ListEvents(d)
		if err != nil {
			return present(events, err, nil)
		}
		if eventListJSON {
			if events == nil {
				events = []event.Event{}
			}
			return encodeJSONToStdout(events)
		}
		if len(events) == 0 {
			printEmpty("events")
			return nil
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		fmt.Print(formatEventTable(events, index))
		return nil
	})
}

func formatEventTable(events []event.Event, index category.Index) string {
	idList := make([]string, 0, len(events))
	for _, e := range events {
		idList = append(idList, e.ID())
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "DATE", "NAME", "LOCATION", "CATEGORY"}, len(events))
	for _, e := range events {
		c, ok := index[e.Info.CategoryID]
		location := e.Location
		if location == "" {
			location = "-"
		}
		builder.AddRow(highlight(e.ID()), formatEventDates(e), ui.TruncateTableCell(e.Info.Name), ui.TruncateTableCell(location), ui.CategoryLabel(c, ok))
	}
	return builder.String()
}

func formatEventDates(e event.Event) string {
	if e.EndDate.IsZero() || e.EndDate.Equal(e.Date) {
		return e.Date.String()
	}
	return e.Date.String() + ".." + e.EndDate.String()
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var failures []error
		for _, ref := range args {
			deleted, err := t.DeleteEvent(ref)
			if err := present(deleted, err, func(e event.Event) error {
				fmt.Printf("Deleted event %s: %s\n", highlightOne(e.ID()), e.Info.Name)
				return nil
			}); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}
