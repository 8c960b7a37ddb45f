// Package summary aggregates a day's activity.
//
// A DailySummary is built once and then updated incrementally as tasks are
// scheduled and completed. It is purely additive: nothing is ever
// unscheduled or uncompleted, so deleting or reopening an instance leaves
// the summary as it was.
package summary

import (
	"slices"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
)

// DailySummary records which templates were scheduled and completed on Date.
// Scheduled and Completed hold template ids in insertion order; Completed is
// always a subset of Scheduled.
type DailySummary struct {
	Date              day.Date       `json:"date"`
	Scheduled         []string       `json:"scheduled"`
	Completed         []string       `json:"completed"`
	CompletionRate    float64        `json:"completion_rate"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
}

// New returns an empty summary for d.
func New(d day.Date) DailySummary {
	return DailySummary{
		Date:              d,
		Scheduled:         []string{},
		Completed:         []string{},
		CategoryBreakdown: map[string]int{},
	}
}

// Build constructs the summary for d from the instances that begin on d.
func Build(d day.Date, instances []task.Instance, categories category.Index) DailySummary {
	s := New(d)
	for _, inst := range instances {
		if !inst.BeginDate.Equal(d) {
			continue
		}
		s.AddScheduledTask(inst)
		if inst.IsCompleted {
			s.MarkCompleted(inst, categories.Name(inst.Info.CategoryID))
		}
	}
	return s
}

// IsScheduled reports whether inst's template is scheduled.
func (s DailySummary) IsScheduled(inst task.Instance) bool {
	return slices.Contains(s.Scheduled, inst.TemplateID)
}

// IsCompleted reports whether inst's template is completed.
func (s DailySummary) IsCompleted(inst task.Instance) bool {
	return slices.Contains(s.Completed, inst.TemplateID)
}

// AddScheduledTask adds inst's template to the scheduled set unless it is
// already there. It reports whether the summary changed.
func (s *DailySummary) AddScheduledTask(inst task.Instance) bool {
	if s.IsScheduled(inst) {
		return false
	}
	s.Scheduled = append(s.Scheduled, inst.TemplateID)
	s.recompute()
	return true
}

// MarkCompleted moves inst's template to the completed set when it is
// scheduled and not yet completed, crediting categoryName in the breakdown
// when it is non-empty. It reports whether the summary changed.
func (s *DailySummary) MarkCompleted(inst task.Instance, categoryName string) bool {
	if !s.IsScheduled(inst) || s.IsCompleted(inst) {
		return false
	}
	s.Completed = append(s.Completed, inst.TemplateID)
	if categoryName != "" {
		if s.CategoryBreakdown == nil {
			s.CategoryBreakdown = map[string]int{}
		}
		s.CategoryBreakdown[categoryName]++
	}
	s.recompute()
	return true
}

// RenameCategory moves the breakdown count of from onto to.
func (s *DailySummary) RenameCategory(from, to string) bool {
	count, ok := s.CategoryBreakdown[from]
	if !ok || from == to {
		return false
	}
	delete(s.CategoryBreakdown, from)
	s.CategoryBreakdown[to] += count
	return true
}

// Rate returns len(Completed)/len(Scheduled), or 0 when nothing is scheduled.
func (s DailySummary) Rate() float64 {
	if len(s.Scheduled) == 0 {
		return 0
	}
	return float64(len(s.Completed)) / float64(len(s.Scheduled))
}

func (s *DailySummary) recompute() {
	s.CompletionRate = s.Rate()
}
