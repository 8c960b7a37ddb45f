// Package goal measures how often a target task was completed inside a
// goal's date range.
//
// A goal has no explicit states. Its progress is derived on every call from
// a completion ledger, so resetting a goal only clears the ledger and never
// touches the range or the frequency target. Manual entries are
// append-only; entries credited by a task instance are withdrawn when that
// instance is reopened.
package goal

import (
	"slices"
	"strings"

	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/validation"
)

// Period tags a goal as weekly or monthly.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ValidPeriods returns all valid period values.
func ValidPeriods() []Period {
	return []Period{PeriodWeek, PeriodMonth}
}

// IsValid returns true if the period is a known value.
func (p Period) IsValid() bool {
	for _, valid := range ValidPeriods() {
		if p == valid {
			return true
		}
	}
	return false
}

// ParsePeriod parses a period name case-insensitively.
func ParsePeriod(value string) (Period, error) {
	return validation.ParseEnum("period", value, ValidPeriods())
}

// Goal tracks completions of TargetTaskID between BeginDate and DueDate.
// A zero DueDate makes the goal open-ended.
type Goal struct {
	Info            info.Info  `json:"info"`
	BeginDate       day.Date   `json:"begin_date"`
	DueDate         day.Date   `json:"due_date,omitzero"`
	TargetTaskID    string     `json:"target_task_id"`
	Period          Period     `json:"period"`
	Frequency       int        `json:"frequency"`
	CompletionDates []day.Date `json:"completion_dates"`

	// Credits maps the task instances that fed the ledger to the date
	// each one recorded.
	Credits map[string]day.Date `json:"credits,omitempty"`
}

// Options holds the fields of a new goal.
type Options struct {
	Name         string
	Description  string
	CategoryID   string
	BeginDate    day.Date
	DueDate      day.Date
	TargetTaskID string
	Period       Period
	Frequency    int
}

// New validates opts and returns a goal with an empty ledger.
func New(opts Options, created day.Date) (Goal, error) {
	if err := validateShape(opts.BeginDate, opts.DueDate, opts.TargetTaskID, opts.Period, opts.Frequency); err != nil {
		return Goal{}, err
	}
	meta, err := info.New(opts.Name, opts.Description, opts.CategoryID, created)
	if err != nil {
		return Goal{}, err
	}
	return Goal{
		Info:            meta,
		BeginDate:       opts.BeginDate,
		DueDate:         opts.DueDate,
		TargetTaskID:    strings.TrimSpace(opts.TargetTaskID),
		Period:          opts.Period,
		Frequency:       opts.Frequency,
		CompletionDates: []day.Date{},
	}, nil
}

func validateShape(begin, due day.Date, target string, period Period, frequency int) error {
	if begin.IsZero() {
		return errs.Validation("begin date", "is required")
	}
	if !due.IsZero() && due.Before(begin) {
		return errs.Validation("due date", "%s is before begin date %s", due, begin)
	}
	if strings.TrimSpace(target) == "" {
		return errs.Validation("target task", "is required")
	}
	if !period.IsValid() {
		return validation.InvalidValue("period", period, ValidPeriods())
	}
	if frequency < 0 {
		return errs.Validation("frequency", "must be at least 0, got %d", frequency)
	}
	return nil
}

// ID returns the goal's identity.
func (g Goal) ID() string { return g.Info.ID }

// Validate re-checks the goal's invariants after an edit.
func (g Goal) Validate() error {
	return validateShape(g.BeginDate, g.DueDate, g.TargetTaskID, g.Period, g.Frequency)
}

// IsOpenEnded reports whether the goal has no due date.
func (g Goal) IsOpenEnded() bool {
	return g.DueDate.IsZero()
}

// RecordCompletion appends d to the ledger. Repeated dates all count.
func (g *Goal) RecordCompletion(d day.Date) {
	g.CompletionDates = append(g.CompletionDates, d)
}

// Credit records a completion of instanceID on d. An instance is credited
// at most once until it is withdrawn; Credit reports whether it recorded.
func (g *Goal) Credit(instanceID string, d day.Date) bool {
	if _, ok := g.Credits[instanceID]; ok {
		return false
	}
	if g.Credits == nil {
		g.Credits = make(map[string]day.Date)
	}
	g.Credits[instanceID] = d
	g.RecordCompletion(d)
	return true
}

// Withdraw removes the ledger entry credited by instanceID, if any.
func (g *Goal) Withdraw(instanceID string) bool {
	d, ok := g.Credits[instanceID]
	if !ok {
		return false
	}
	delete(g.Credits, instanceID)
	for i := len(g.CompletionDates) - 1; i >= 0; i-- {
		if g.CompletionDates[i].Equal(d) {
			g.CompletionDates = slices.Delete(g.CompletionDates, i, i+1)
			break
		}
	}
	return true
}

// Reset clears the ledger.
func (g *Goal) Reset() {
	g.CompletionDates = []day.Date{}
	g.Credits = nil
}

// End returns the last day that counts toward progress as of asOf:
// the due date when one is set, otherwise asOf. The zero Date means
// unbounded.
func (g Goal) End(asOf day.Date) day.Date {
	if !g.DueDate.IsZero() {
		return g.DueDate
	}
	return asOf
}

// CurrentProgress counts ledger entries d with BeginDate <= d <= End(asOf).
func (g Goal) CurrentProgress(asOf day.Date) int {
	return g.countThrough(g.End(asOf))
}

// ProgressOn counts the ledger entries from BeginDate through d, never past
// the due date. Entries dated after d do not count even when the range
// extends beyond it.
func (g Goal) ProgressOn(d day.Date) int {
	end := d
	if !g.DueDate.IsZero() && g.DueDate.Before(d) {
		end = g.DueDate
	}
	return g.countThrough(end)
}

func (g Goal) countThrough(end day.Date) int {
	count := 0
	for _, d := range g.CompletionDates {
		if d.Within(g.BeginDate, end) {
			count++
		}
	}
	return count
}

// IsAchieved reports whether progress has reached the frequency target.
// A frequency of zero is always achieved.
func (g Goal) IsAchieved(asOf day.Date) bool {
	return g.CurrentProgress(asOf) >= g.Frequency
}

// IsActive reports whether d falls inside the goal's range.
func (g Goal) IsActive(d day.Date) bool {
	return d.Within(g.BeginDate, g.DueDate)
}

// Remaining returns how many more completions the goal needs, never negative.
func (g Goal) Remaining(asOf day.Date) int {
	if n := g.Frequency - g.CurrentProgress(asOf); n > 0 {
		return n
	}
	return 0
}

// FilterByPeriod returns the goals tagged with period, in input order.
// It never looks at the goals' date ranges.
func FilterByPeriod(goals []Goal, period Period) []Goal {
	var out []Goal
	for _, g := range goals {
		if g.Period == period {
			out = append(out, g)
		}
	}
	return out
}

// DefaultWindow returns the calendar window containing today: Monday to
// Sunday for PeriodWeek, first to last day of the month for PeriodMonth.
func DefaultWindow(period Period, today day.Date) (begin, end day.Date, err error) {
	switch period {
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		begin = today.AddDays(-offset)
		return begin, begin.AddDays(6), nil
	case PeriodMonth:
		begin = day.New(today.Year(), today.Month(), 1)
		end = day.New(today.Year(), today.Month()+1, 1).AddDays(-1)
		return begin, end, nil
	default:
		return day.Date{}, day.Date{}, validation.InvalidValue("period", period, ValidPeriods())
	}
}

// String renders a one-line progress description.
func (g Goal) String() string {
	return g.Info.Name + " (" + string(g.Period) + ")"
}
