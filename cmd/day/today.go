package main

import (
	"fmt"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/listflags"
	"github.com/amonks/daybook/internal/ui"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Schedule and complete today's tasks",
	Long: `Schedule and complete today's tasks.

Running "day today" with no subcommand lists today's tasks.`,
	Args: cobra.NoArgs,
	RunE: runTodayList,
}

var todayAddCmd = &cobra.Command{
	Use:   "add TEMPLATE...",
	Short: "Promote templates to today's tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodayAdd,
}

var todayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTodayList,
}

var todayCompleteCmd = &cobra.Command{
	Use:     "complete TASK...",
	Aliases: []string{"done"},
	Short:   "Mark tasks completed",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTodayComplete,
}

var todayUncompleteCmd = &cobra.Command{
	Use:     "uncomplete TASK...",
	Aliases: []string{"reopen"},
	Short:   "Mark tasks open again",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTodayUncomplete,
}

var todaySetCmd = &cobra.Command{
	Use:   "set TASK done|open",
	Short: "Set a task's completion state",
	Long:  "Set a task's completion state. Setting the state it already has is not an error.",
	Args:  cobra.ExactArgs(2),
	RunE:  runTodaySet,
}

var todayDueCmd = &cobra.Command{
	Use:   "due TASK DATE",
	Short: "Change a task's due date",
	Long:  `Change a task's due date. DATE is YYYY-MM-DD, or "none" to clear it.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runTodayDue,
}

var todayPriorityCmd = &cobra.Command{
	Use:   "priority TASK low|medium|high",
	Short: "Change a task's priority",
	Args:  cobra.ExactArgs(2),
	RunE:  runTodayPriority,
}

var todayDeleteCmd = &cobra.Command{
	Use:   "delete TASK...",
	Short: "Delete tasks",
	Long:  "Delete tasks. The day's summary keeps counting them.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodayDelete,
}

var todayPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete completed tasks from before a date",
	Args:  cobra.NoArgs,
	RunE:  runTodayPurge,
}

var todayShowCmd = &cobra.Command{
	Use:   "show TASK",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodayShow,
}

var (
	todayAddPriority string
	todayAddDue      string

	todayListDate    string
	todayListOpen    bool
	todayListOverdue bool
	todayListAll     bool
	todayListJSON    bool

	todayPurgeBefore string
	todayPurgeAll    bool

	todayShowJSON bool
)

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.AddCommand(todayAddCmd, todayListCmd, todayCompleteCmd, todayUncompleteCmd, todaySetCmd,
		todayDueCmd, todayPriorityCmd, todayDeleteCmd, todayPurgeCmd, todayShowCmd)

	addFlagAliases(todayAddCmd)
	todayAddCmd.Flags().StringVarP(&todayAddPriority, "priority", "p", "", "Priority: low, medium or high (default from config, then medium)")
	todayAddCmd.Flags().StringVar(&todayAddDue, "due", "", "Due date (YYYY-MM-DD)")

	for _, cmd := range []*cobra.Command{todayCmd, todayListCmd} {
		cmd.Flags().StringVar(&todayListDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
		cmd.Flags().BoolVar(&todayListOpen, "open", false, "Only incomplete tasks")
		cmd.Flags().BoolVar(&todayListOverdue, "overdue", false, "Only overdue tasks, from any day")
		listflags.AddAllFlag(cmd, &todayListAll, "Include tasks from every day")
		listflags.AddJSONFlag(cmd, &todayListJSON)
	}

	todayPurgeCmd.Flags().StringVar(&todayPurgeBefore, "before", "", "Delete tasks that began before this date (YYYY-MM-DD)")
	todayPurgeCmd.Flags().BoolVar(&todayPurgeAll, "all", false, "Also delete incomplete tasks")
	_ = todayPurgeCmd.MarkFlagRequired("before")

	listflags.AddJSONFlag(todayShowCmd, &todayShowJSON)
}

func runTodayAdd(cmd *cobra.Command, args []string) error {
	due, err := parseDateFlag("due date", todayAddDue)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, cfg *config.Config) error {
		value := todayAddPriority
		if !cmd.Flags().Changed("priority") {
			value = cfg.Defaults.Priority
		}
		priority, err := task.ParsePriority(value)
		if err != nil {
			return err
		}

		var failures []error
		for _, ref := range args {
			inst, err := t.AddToToday(ref, task.PromoteOptions{Priority: priority, DueDate: due})
			if err := present(inst, err, func(inst task.Instance) error {
				fmt.Printf("Added %s to %s: %s\n", highlightOne(inst.ID), inst.BeginDate, inst.Info.Name)
				return nil
			}); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}

func runTodayList(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		filter := tracker.InstanceFilter{Open: todayListOpen, Overdue: todayListOverdue}
		if !todayListAll && !todayListOverdue {
			d, err := parseDateArg("date", todayListDate, t.Today())
			if err != nil {
				return err
			}
			filter.Day = d
		}

		instances, err := t.ListInstances(filter)
		if err != nil {
			return present(instances, err, nil)
		}
		if todayListJSON {
			if instances == nil {
				instances = []task.Instance{}
			}
			return encodeJSONToStdout(instances)
		}
		if len(instances) == 0 {
			fmt.Println(todayEmptyListMessage(filter))
			return nil
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		fmt.Print(formatInstanceTable(instances, index, t.Today()))
		return nil
	})
}

func todayEmptyListMessage(filter tracker.InstanceFilter) string {
	switch {
	case filter.Overdue:
		return "No overdue tasks."
	case filter.Day.IsZero() && filter.Open:
		return "No open tasks."
	case filter.Day.IsZero():
		return "No tasks found."
	case filter.Open:
		return fmt.Sprintf("No open tasks for %s.", filter.Day)
	default:
		return fmt.Sprintf("Nothing scheduled for %s. Add one with: day today add TEMPLATE", filter.Day)
	}
}

func formatInstanceTable(instances []task.Instance, index category.Index, today day.Date) string {
	idList := make([]string, 0, len(instances))
	for _, inst := range instances {
		idList = append(idList, inst.ID)
	}
	highlight := highlighter(idList)

	builder := ui.NewTableBuilder([]string{"ID", "DAY", "STATUS", "PRIORITY", "NAME", "CATEGORY", "DUE"}, len(instances))
	for _, inst := range instances {
		c, ok := index[inst.Info.CategoryID]
		builder.AddRow(
			highlight(inst.ID),
			inst.BeginDate.String(),
			instanceStatus(inst),
			string(inst.Priority),
			ui.TruncateTableCell(inst.Info.Name),
			ui.CategoryLabel(c, ok),
			ui.FormatDue(inst.DueDate, today),
		)
	}
	return builder.String()
}

func instanceStatus(inst task.Instance) string {
	if inst.IsCompleted {
		return "done"
	}
	return "open"
}

func runTodayComplete(cmd *cobra.Command, args []string) error {
	return eachInstance(args, func(t *tracker.Tracker, ref string) error {
		inst, err := t.Complete(ref)
		return present(inst, err, func(inst task.Instance) error {
			fmt.Printf("Completed %s: %s at %s\n", highlightOne(inst.ID), inst.Info.Name, ui.FormatCompletedAt(inst.CompletedAt))
			return nil
		})
	})
}

func runTodayUncomplete(cmd *cobra.Command, args []string) error {
	return eachInstance(args, func(t *tracker.Tracker, ref string) error {
		inst, err := t.Uncomplete(ref)
		return present(inst, err, func(inst task.Instance) error {
			fmt.Printf("Reopened %s: %s\n", highlightOne(inst.ID), inst.Info.Name)
			return nil
		})
	})
}

func eachInstance(args []string, fn func(t *tracker.Tracker, ref string) error) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		var failures []error
		for _, ref := range args {
			if err := fn(t, ref); err != nil {
				failures = append(failures, err)
			}
		}
		return joinPresented(failures)
	})
}

// parseCompletionState maps done/open to the completed flag.
func parseCompletionState(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "done", "complete", "completed":
		return true, nil
	case "open", "incomplete":
		return false, nil
	default:
		return false, errs.Validation("state", "must be done or open, got %q", value)
	}
}

func runTodaySet(cmd *cobra.Command, args []string) error {
	completed, err := parseCompletionState(args[1])
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		type result struct {
			inst    task.Instance
			changed bool
		}
		inst, changed, err := t.SetCompleted(args[0], completed)
		return present(result{inst, changed}, err, func(r result) error {
			state := instanceStatus(r.inst)
			if !r.changed {
				fmt.Printf("%s is already %s: %s\n", highlightOne(r.inst.ID), state, r.inst.Info.Name)
				return nil
			}
			fmt.Printf("Marked %s %s: %s\n", highlightOne(r.inst.ID), state, r.inst.Info.Name)
			return nil
		})
	})
}

func runTodayDue(cmd *cobra.Command, args []string) error {
	var due day.Date
	if !strings.EqualFold(args[1], "none") {
		parsed, err := parseDateFlag("due date", args[1])
		if err != nil {
			return err
		}
		due = parsed
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		inst, err := t.EditDueDate(args[0], due)
		return present(inst, err, func(inst task.Instance) error {
			if !inst.HasDueDate() {
				fmt.Printf("Cleared due date of %s: %s\n", highlightOne(inst.ID), inst.Info.Name)
				return nil
			}
			fmt.Printf("%s is due %s: %s\n", highlightOne(inst.ID), inst.DueDate, inst.Info.Name)
			return nil
		})
	})
}

func runTodayPriority(cmd *cobra.Command, args []string) error {
	priority, err := task.ParsePriority(args[1])
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		inst, err := t.SetPriority(args[0], priority)
		return present(inst, err, func(inst task.Instance) error {
			fmt.Printf("Set priority of %s to %s: %s\n", highlightOne(inst.ID), inst.Priority, inst.Info.Name)
			return nil
		})
	})
}

func runTodayDelete(cmd *cobra.Command, args []string) error {
	return eachInstance(args, func(t *tracker.Tracker, ref string) error {
		inst, err := t.DeleteInstance(ref)
		return present(inst, err, func(inst task.Instance) error {
			fmt.Printf("Deleted %s: %s\n", highlightOne(inst.ID), inst.Info.Name)
			return nil
		})
	})
}

func runTodayPurge(cmd *cobra.Command, args []string) error {
	cutoff, err := parseDateFlag("cutoff date", todayPurgeBefore)
	if err != nil {
		return err
	}
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		purged, err := t.PurgeInstancesBefore(cutoff, todayPurgeAll)
		return present(purged, err, func(n int) error {
			fmt.Printf("Purged %d %s from before %s\n", n, pluralize(n, "task", "tasks"), cutoff)
			return nil
		})
	})
}

func runTodayShow(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, _ *config.Config) error {
		inst, err := t.ShowInstance(args[0])
		if err != nil {
			return present(inst, err, nil)
		}
		if todayShowJSON {
			return encodeJSONToStdout(inst)
		}
		index, err := t.CategoryIndex()
		if err != nil {
			return err
		}
		c, ok := index[inst.Info.CategoryID]
		status := instanceStatus(inst)
		if t.IsOverdue(inst) {
			status += " (overdue)"
		}
		fmt.Printf("ID:        %s\n", highlightOne(inst.ID))
		fmt.Printf("Name:      %s\n", inst.Info.Name)
		fmt.Printf("Template:  %s\n", inst.TemplateID)
		fmt.Printf("Category:  %s\n", ui.CategoryLabel(c, ok))
		fmt.Printf("Priority:  %s\n", inst.Priority)
		fmt.Printf("Day:       %s\n", inst.BeginDate)
		fmt.Printf("Due:       %s\n", ui.FormatDue(inst.DueDate, t.Today()))
		fmt.Printf("Status:    %s\n", status)
		fmt.Printf("Completed: %s\n", ui.FormatCompletedAt(inst.CompletedAt))
		printDescription(inst.Info.Description)
		return nil
	})
}
