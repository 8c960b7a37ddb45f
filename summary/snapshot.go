package summary

import (
	"github.com/amonks/daybook/event"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/wellness"
)

// GoalStatus is a goal's progress as of a given day.
type GoalStatus struct {
	Goal     goal.Goal `json:"goal"`
	Progress int       `json:"progress"`
	Achieved bool      `json:"achieved"`
}

// Snapshot is everything that happened on one day.
type Snapshot struct {
	Summary  DailySummary      `json:"summary"`
	Tasks    []task.Instance   `json:"tasks"`
	Overdue  int               `json:"overdue"`
	Goals    []GoalStatus      `json:"goals"`
	Events   []event.Event     `json:"events"`
	Wellness wellness.Averages `json:"wellness"`
}

// Sources holds the entity sets a snapshot is folded from.
type Sources struct {
	Instances []task.Instance
	Goals     []goal.Goal
	Events    []event.Event
	Entries   []wellness.Entry
}

// Fold builds the snapshot of s.Date. Tasks are the instances that begin on
// that day; Overdue counts every instance past its due date. Only goals
// active on that day are included, and their progress counts only ledger
// entries dated on or before it.
func Fold(s DailySummary, src Sources) Snapshot {
	d := s.Date
	snap := Snapshot{
		Summary:  s,
		Tasks:    []task.Instance{},
		Goals:    []GoalStatus{},
		Events:   event.OccurringOn(src.Events, d),
		Wellness: wellness.Average(src.Entries, d),
	}
	if snap.Events == nil {
		snap.Events = []event.Event{}
	}
	for _, inst := range src.Instances {
		if inst.IsOverdue(d) {
			snap.Overdue++
		}
		if inst.BeginDate.Equal(d) {
			snap.Tasks = append(snap.Tasks, inst)
		}
	}
	task.SortForDisplay(snap.Tasks)
	for _, g := range src.Goals {
		if !g.IsActive(d) {
			continue
		}
		progress := g.ProgressOn(d)
		snap.Goals = append(snap.Goals, GoalStatus{
			Goal:     g,
			Progress: progress,
			Achieved: progress >= g.Frequency,
		})
	}
	return snap
}

// Day returns the snapshot's date.
func (s Snapshot) Day() day.Date { return s.Summary.Date }
