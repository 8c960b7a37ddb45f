package main

import (
	"fmt"
	"os"

	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track how often a task gets done",
}

var goalCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a goal",
	Long: `Create a goal that counts completions of a template's tasks.

The goal runs from --begin (default today) through --due, or stays open-ended
without one. --window fills both with the current calendar week or month.`,
	Args: cobra.ExactArgs(1),
	RunE: runGoalCreate,
}

var goalRecordCmd = &cobra.Command{
	Use:   "record GOAL",
	Short: "Record a completion toward a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalRecord,
}

var goalResetCmd = &cobra.Command{
	Use:   "reset GOAL",
	Short: "Clear a goal's recorded completions",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalReset,
}

var goalEditCmd = &cobra.Command{
	Use:   "edit GOAL",
	Short: "Edit a goal's name, frequency or range",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalEdit,
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete GOAL...",
	Short: "Delete goals",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalDelete,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with their progress",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalShowCmd = &cobra.Command{
	Use:   "show GOAL",
	Short: "Show a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalShow,
}

var (
	goalCreateTarget      string
	goalCreatePeriod      string
	goalCreateFrequency   int
	goalCreateBegin       string
	goalCreateDue         string
	goalCreateWindow      bool
	goalCreateCategory    string
	goalCreateDescription string

	goalRecordDate string

	goalEditName      string
	goalEditFrequency int
	goalEditBegin     string
	goalEditDue       string

	goalListPeriod string
	goalListJSON   bool
	goalShowJSON   bool
)

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalCreateCmd, goalRecordCmd, goalResetCmd, goalEditCmd, goalDeleteCmd, goalListCmd, goalShowCmd)

	addFlagAliases(goalCreateCmd, goalEditCmd)
	goalCreateCmd.Flags().StringVarP(&goalCreateTarget, "target", "t", "", "Template whose completions count")
	goalCreateCmd.Flags().StringVarP(&goalCreatePeriod, "period", "p", string(goal.PeriodWeek), "Period: week or month")
	goalCreateCmd.Flags().IntVarP(&goalCreateFrequency, "frequency", "f", 1, "Completions needed")
	goalCreateCmd.Flags().StringVar(&goalCreateBegin, "begin", "", "First day that counts (YYYY-MM-DD, default today)")
	goalCreateCmd.Flags().StringVar(&goalCreateDue, "due", "", "Last day that counts (YYYY-MM-DD)")
	goalCreateCmd.Flags().BoolVar(&goalCreateWindow, "window", false, "Use the current calendar week or month as the range")
	goalCreateCmd.Flags().StringVarP(&goalCreateCategory, "category", "c", "", "Category name or id prefix")
	goalCreateCmd.Flags().StringVarP(&goalCreateDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	_ = goalCreateCmd.MarkFlagRequired("target")

	goalRecordCmd.Flags().StringVar(&goalRecordDate, "date", "", "Completion day (YYYY-MM-DD, default today)")

	goalEditCmd.Flags().StringVar(&goalEditName, "name", "", "New name")
	goalEditCmd.Flags().IntVarP(&goalEditFrequency, "frequency", "f", 0, "New frequency")
	goalEditCmd.Flags().StringVar(&goalEditBegin, "begin", "", "New begin date (YYYY-MM-DD)")
	goalEditCmd.Flags().StringVar(&goalEditDue, "due", "", `New due date (YYYY-MM-DD, or "none" for open-ended)`)

	goalListCmd.Flags().StringVarP(&goalListPeriod, "period", "p", "", "Only goals of this period")
	listflags.AddJSONFlag(goalListCmd, &goalListJSON)
	listflags.AddJSONFlag(goalShowCmd, &goalShowJSON)
}

func runGoalCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(goalCreateDescription, os.Stdin)
		if err != nil {
			return err
		}
		goalCreateDescription = desc
	}
	period, err := goal.ParsePeriod(goalCreatePeriod)
	if err != nil {
		return err
	}
	begin, err := parseDateFlag("begin date", goalCreateBegin)
	if err != nil {
		return err
	}
	due, err := parseDateFlag("due date", goalCreateDue)
	if err != nil {
		return err
	}

	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		created, err := t.CreateGoal(tracker.GoalInput{
			Name:        args[0],
			Description: goalCreateDescription,
			Category:    goalCreateCategory,
			Target:      goalCreateTarget,
			Period:      period,
			Frequency:   goalCreateFrequency,
			BeginDate:   begin,
			DueDate:     due,
			Window:      goalCreateWindow,
		})
		return present(created, err, func(g goal.Goal) error {
			fmt.Printf("Created goal %s: %s (%dx %s, %s)\n", highlightOne(g.ID()), g.Info.Name, g.Frequency, g.Period, formatGoalRange(g))
			return nil
		})
	})
}

func runGoalRecord(cmd *cobra.Command, args []string) error {
	d, err := parseDateFlag("date", goalRecordDate)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		recorded, err := t.RecordGoalCompletion(args[0], d)
		return present(recorded, err, func(g goal.Goal) error {
			today := t.Today()
			fmt.Printf("Recorded %s: %d/%d\n", g.Info.Name, g.CurrentProgress(today), g.Frequency)
			return nil
		})
	})
}

func runGoalReset(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		reset, err := t.ResetGoal(args[0])
		return present(reset, err, func(g goal.Goal) error {
			fmt.Printf("Reset goal %s: %s\n", highlightOne(g.ID()), g.Info.Name)
			return nil
		})
	})
}

func runGoalEdit(cmd *cobra.Command, args []string) error {
	if !hasChangedFlags(cmd, "name", "frequency", "begin", "due") {
		return fmt.Errorf("nothing to change (pass --name, --frequency, --begin or --due)")
	}

	var edit tracker.GoalEdit
	if cmd.Flags().Changed("name") {
		edit.Name = &goalEditName
	}
	if cmd.Flags().Changed("frequency") {
		edit.Frequency = &goalEditFrequency
	}
	if cmd.Flags().Changed("begin") {
		begin, err := parseDateFlag("begin date", goalEditBegin)
		if err != nil {
			return err
		}
		edit.BeginDate = &begin
	}
	if cmd.Flags().Changed("due") {
		var due day.Date
		if goalEditDue != "none" {
			parsed, err := parseDateFlag("due date", goalEditDue)
			if err != nil {
				return err
			}
			due = parsed
		}
		edit.DueDate = &due
	}

	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		updated, err := t.EditGoal(args[0], edit)
		return present(updated, err, func(g goal.Goal) error {
			fmt.Printf("Updated goal %s: %s (%dx %s, %s)\n", highlightOne(g.ID()), g.Info.Name, g.Frequency, g.Period, formatGoalRange(g))
			return nil
		})
	})
}

func runGoalDelete(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var failures []error
		for _, ref := range args {
			deleted, err := t.DeleteGoal(ref)
			if err := present(deleted, err, func(g goal.Goal) error {
				fmt.Printf("Deleted goal %s: %s\n", highlightOne(g.ID()), g.Info.Name)
				return nil
			}); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}

func runGoalList(cmd *cobra.Command, args []string) error {
	var period goal.Period
	if goalListPeriod != "" {
		parsed, err := goal.ParsePeriod(goalListPeriod)
		if err != nil {
			return err
		}
		period = parsed
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		statuses, err := t.GoalStatuses(period)
		return present(statuses, err, func(statuses []summary.GoalStatus) error {
			if goalListJSON {
				return encodeJSONToStdout(statuses)
			}
			if len(statuses) == 0 {
				printEmpty("goals")
				return nil
			}
			fmt.Print(formatGoalTable(statuses))
			return nil
		})
	})
}

func formatGoalTable(statuses []summary.GoalStatus) string {
	idList := make([]string, 0, len(statuses))
	for _, s := range statuses {
		idList = append(idList, s.Goal.ID())
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "PERIOD", "PROGRESS", "RANGE", "STATUS"}, len(statuses))
	for _, s := range statuses {
		builder.AddRow(
			highlight(s.Goal.ID()),
			ui.TruncateTableCell(s.Goal.Info.Name),
			string(s.Goal.Period),
			fmt.Sprintf("%d/%d", s.Progress, s.Goal.Frequency),
			formatGoalRange(s.Goal),
			goalStatusLabel(s),
		)
	}
	return builder.String()
}

func formatGoalRange(g goal.Goal) string {
	if g.IsOpenEnded() {
		return g.BeginDate.String() + ".."
	}
	return g.BeginDate.String() + ".." + g.DueDate.String()
}

func goalStatusLabel(s summary.GoalStatus) string {
	if s.Achieved {
		return "achieved"
	}
	return "in progress"
}

func runGoalShow(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		status, err := t.ShowGoal(args[0])
		if err != nil {
			return present(status, err, nil)
		}
		if goalShowJSON {
			return encodeJSONToStdout(status)
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		g := status.Goal
		c, ok := index[g.Info.CategoryID]
		fmt.Printf("ID:       %s\n", highlightOne(g.ID()))
		fmt.Printf("Name:     %s\n", g.Info.Name)
		fmt.Printf("Target:   %s\n", g.TargetTaskID)
		fmt.Printf("Category: %s\n", ui.CategoryLabel(c, ok))
		fmt.Printf("Period:   %s\n", g.Period)
		fmt.Printf("Range:    %s\n", formatGoalRange(g))
		fmt.Printf("Progress: %d/%d\n", status.Progress, g.Frequency)
		fmt.Printf("Status:   %s\n", goalStatusLabel(status))
		printDescription(g.Info.Description)
		return nil
	})
}
