package tracker

import (
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/internal/validation"
	"github.com/amonks/daybook/summary"
)

// GoalInput holds the fields of a new goal. Target is a template id prefix;
// Category is a category name or id prefix.
type GoalInput struct {
	Name        string
	Description string
	Category    string
	Target      string
	Period      goal.Period
	Frequency   int
	BeginDate   day.Date
	DueDate     day.Date

	// Window fills a missing BeginDate and DueDate with the calendar week
	// or month containing today.
	Window bool
}

// CreateGoal registers a goal with an empty completion ledger.
func (t *Tracker) CreateGoal(input GoalInput) (goal.Goal, error) {
	if input.Window && input.BeginDate.IsZero() && input.DueDate.IsZero() {
		begin, end, err := goal.DefaultWindow(input.Period, t.clock.Today())
		if err != nil {
			return goal.Goal{}, err
		}
		input.BeginDate, input.DueDate = begin, end
	}
	if input.BeginDate.IsZero() {
		input.BeginDate = t.clock.Today()
	}

	var created goal.Goal
	err := t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			targetID, err := resolve("template", st.Templates, input.Target)
			if err != nil {
				return err
			}
			categoryID, err := categoryRef(st, input.Category)
			if err != nil {
				return err
			}
			g, err := goal.New(goal.Options{
				Name:         input.Name,
				Description:  input.Description,
				CategoryID:   categoryID,
				BeginDate:    input.BeginDate,
				DueDate:      input.DueDate,
				TargetTaskID: targetID,
				Period:       input.Period,
				Frequency:    input.Frequency,
			}, t.clock.Today())
			if err != nil {
				return err
			}
			st.Goals[g.ID()] = g
			created = g
			return nil
		})
	})
	if err != nil {
		return goal.Goal{}, err
	}
	return created, nil
}

// RecordGoalCompletion appends d (today when zero) to a goal's ledger.
func (t *Tracker) RecordGoalCompletion(ref string, d day.Date) (goal.Goal, error) {
	if d.IsZero() {
		d = t.clock.Today()
	}
	var recorded goal.Goal
	var achieved *GoalAchievedLog
	err := t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("goal", st.Goals, ref)
			if err != nil {
				return err
			}
			g := st.Goals[id]
			today := t.clock.Today()
			was := g.IsAchieved(today)
			g.RecordCompletion(d)
			st.Goals[id] = g
			if !was && g.IsAchieved(today) {
				achieved = &GoalAchievedLog{Goal: g, Progress: g.CurrentProgress(today), On: d}
			}
			recorded = g
			return nil
		})
	})
	if err != nil {
		return goal.Goal{}, err
	}
	if achieved != nil {
		t.logger.GoalAchieved(*achieved)
	}
	return recorded, nil
}

// ResetGoal clears a goal's ledger, keeping its range and frequency.
func (t *Tracker) ResetGoal(ref string) (goal.Goal, error) {
	return t.updateGoal(ref, func(g *goal.Goal) error {
		g.Reset()
		return nil
	})
}

// GoalEdit lists the goal fields to change. Nil means unchanged.
type GoalEdit struct {
	Name      *string
	Frequency *int
	BeginDate *day.Date
	DueDate   *day.Date
}

// EditGoal updates a goal's name, frequency or range.
func (t *Tracker) EditGoal(ref string, edit GoalEdit) (goal.Goal, error) {
	return t.updateGoal(ref, func(g *goal.Goal) error {
		if edit.Name != nil {
			if err := g.Info.SetName(*edit.Name); err != nil {
				return err
			}
		}
		if edit.Frequency != nil {
			g.Frequency = *edit.Frequency
		}
		if edit.BeginDate != nil {
			g.BeginDate = *edit.BeginDate
		}
		if edit.DueDate != nil {
			g.DueDate = *edit.DueDate
		}
		return g.Validate()
	})
}

func (t *Tracker) updateGoal(ref string, apply func(*goal.Goal) error) (goal.Goal, error) {
	var result goal.Goal
	err := t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("goal", st.Goals, ref)
			if err != nil {
				return err
			}
			g := st.Goals[id]
			if err := apply(&g); err != nil {
				return err
			}
			st.Goals[id] = g
			result = g
			return nil
		})
	})
	if err != nil {
		return goal.Goal{}, err
	}
	return result, nil
}

// DeleteGoal removes a goal.
func (t *Tracker) DeleteGoal(ref string) (goal.Goal, error) {
	var deleted goal.Goal
	err := t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("goal", st.Goals, ref)
			if err != nil {
				return err
			}
			deleted = st.Goals[id]
			delete(st.Goals, id)
			return nil
		})
	})
	if err != nil {
		return goal.Goal{}, err
	}
	return deleted, nil
}

// ListGoals returns the goals tagged with period, or every goal when period
// is empty.
func (t *Tracker) ListGoals(period goal.Period) ([]goal.Goal, error) {
	if period != "" && !period.IsValid() {
		return nil, validation.InvalidValue("period", period, goal.ValidPeriods())
	}
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	goals := st.GoalList()
	if period == "" {
		return goals, nil
	}
	return goal.FilterByPeriod(goals, period), nil
}

// GoalStatuses returns the progress of the goals ListGoals would return,
// measured as of today.
func (t *Tracker) GoalStatuses(period goal.Period) ([]summary.GoalStatus, error) {
	goals, err := t.ListGoals(period)
	if err != nil {
		return nil, err
	}
	today := t.clock.Today()
	out := make([]summary.GoalStatus, 0, len(goals))
	for _, g := range goals {
		out = append(out, summary.GoalStatus{
			Goal:     g,
			Progress: g.CurrentProgress(today),
			Achieved: g.IsAchieved(today),
		})
	}
	return out, nil
}

// ShowGoal returns one goal with its progress as of today.
func (t *Tracker) ShowGoal(ref string) (summary.GoalStatus, error) {
	st, err := t.load()
	if err != nil {
		return summary.GoalStatus{}, err
	}
	id, err := resolve("goal", st.Goals, ref)
	if err != nil {
		return summary.GoalStatus{}, err
	}
	g := st.Goals[id]
	today := t.clock.Today()
	return summary.GoalStatus{Goal: g, Progress: g.CurrentProgress(today), Achieved: g.IsAchieved(today)}, nil
}
