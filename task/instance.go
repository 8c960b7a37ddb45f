package task

import (
	"sort"
	"time"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/ids"
	"github.com/amonks/daybook/internal/validation"
)

// PromoteOptions configures a promotion. Zero values select the defaults.
type PromoteOptions struct {
	// Priority defaults to PriorityMedium.
	Priority Priority

	// DueDate is optional and must not precede the promotion day.
	DueDate day.Date
}

// Promote builds an Instance of t that begins on today.
func Promote(t Template, today day.Date, opts PromoteOptions) (Instance, error) {
	priority := opts.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return Instance{}, validation.InvalidValue("priority", priority, ValidPriorities())
	}
	if err := ValidateDueDate(today, opts.DueDate); err != nil {
		return Instance{}, err
	}

	return Instance{
		ID:         ids.New(),
		TemplateID: t.ID(),
		Info:       t.Info,
		Priority:   priority,
		BeginDate:  today,
		DueDate:    opts.DueDate,
	}, nil
}

// ValidateDueDate checks that due, when set, does not precede begin.
func ValidateDueDate(begin, due day.Date) error {
	if due.IsZero() {
		return nil
	}
	if due.Before(begin) {
		return errs.Validation("due date", "%s is before begin date %s", due, begin)
	}
	return nil
}

// Complete marks the instance completed at the given instant.
// Completing an already-completed instance is a StateError.
func (i *Instance) Complete(at time.Time) error {
	if i.IsCompleted {
		return &errs.StateError{Kind: "task", ID: i.ID, Reason: "already completed"}
	}
	i.IsCompleted = true
	i.CompletedAt = &at
	return nil
}

// Uncomplete reopens a completed instance.
// Reopening an incomplete instance is a StateError.
func (i *Instance) Uncomplete() error {
	if !i.IsCompleted {
		return &errs.StateError{Kind: "task", ID: i.ID, Reason: "not completed"}
	}
	i.IsCompleted = false
	i.CompletedAt = nil
	return nil
}

// SetCompleted is the permissive form used by bulk synchronization: it moves
// the instance to the requested state and reports whether anything changed.
func (i *Instance) SetCompleted(completed bool, at time.Time) bool {
	if i.IsCompleted == completed {
		return false
	}
	if completed {
		i.IsCompleted = true
		i.CompletedAt = &at
	} else {
		i.IsCompleted = false
		i.CompletedAt = nil
	}
	return true
}

// SetDueDate replaces the due date. The zero date clears it.
func (i *Instance) SetDueDate(due day.Date) error {
	if err := ValidateDueDate(i.BeginDate, due); err != nil {
		return err
	}
	i.DueDate = due
	return nil
}

// IsOverdue reports whether the instance has a due date, today is past it,
// and it is not completed. It is derived on every call and never stored.
func (i Instance) IsOverdue(today day.Date) bool {
	return i.HasDueDate() && today.After(i.DueDate) && !i.IsCompleted
}

// Validate checks the completion invariant: CompletedAt is set iff IsCompleted.
func (i Instance) Validate() error {
	if i.IsCompleted && i.CompletedAt == nil {
		return &errs.StateError{Kind: "task", ID: i.ID, Reason: "completed without completed_at"}
	}
	if !i.IsCompleted && i.CompletedAt != nil {
		return &errs.StateError{Kind: "task", ID: i.ID, Reason: "completed_at set on incomplete task"}
	}
	return ValidateDueDate(i.BeginDate, i.DueDate)
}

// SortForDisplay orders instances: incomplete first, then by priority
// (high first), then by due date (soonest first, undated last), then by name.
func SortForDisplay(instances []Instance) {
	sort.SliceStable(instances, func(a, b int) bool {
		x, y := instances[a], instances[b]
		if x.IsCompleted != y.IsCompleted {
			return !x.IsCompleted
		}
		if x.Priority.Rank() != y.Priority.Rank() {
			return x.Priority.Rank() < y.Priority.Rank()
		}
		if x.HasDueDate() != y.HasDueDate() {
			return x.HasDueDate()
		}
		if x.HasDueDate() && !x.DueDate.Equal(y.DueDate) {
			return x.DueDate.Before(y.DueDate)
		}
		return x.Info.Name < y.Info.Name
	})
}
