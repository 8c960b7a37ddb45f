// Package store persists the daybook entity graph.
//
// Every backend exposes the same read-modify-write contract: Update loads the
// whole State, hands it to a mutation function, and writes the result back
// only if that function returns nil. A rejected mutation therefore leaves
// nothing behind.
package store

import (
	"sort"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/event"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/wellness"
)

// State is the persisted entity graph, keyed by id (summaries by date).
type State struct {
	Categories map[string]category.Category      `json:"categories"`
	Templates  map[string]task.Template          `json:"templates"`
	Instances  map[string]task.Instance          `json:"instances"`
	Goals      map[string]goal.Goal              `json:"goals"`
	Events     map[string]event.Event            `json:"events"`
	Wellness   map[string]wellness.Entry         `json:"wellness"`
	Summaries  map[day.Date]summary.DailySummary `json:"summaries"`
}

// NewState returns an empty State with every map allocated.
func NewState() *State {
	st := &State{}
	st.init()
	return st
}

func (st *State) init() {
	if st.Categories == nil {
		st.Categories = make(map[string]category.Category)
	}
	if st.Templates == nil {
		st.Templates = make(map[string]task.Template)
	}
	if st.Instances == nil {
		st.Instances = make(map[string]task.Instance)
	}
	if st.Goals == nil {
		st.Goals = make(map[string]goal.Goal)
	}
	if st.Events == nil {
		st.Events = make(map[string]event.Event)
	}
	if st.Wellness == nil {
		st.Wellness = make(map[string]wellness.Entry)
	}
	if st.Summaries == nil {
		st.Summaries = make(map[day.Date]summary.DailySummary)
	}
}

// CategoryIndex returns an id-to-category index over the stored categories.
func (st *State) CategoryIndex() category.Index {
	return category.Index(st.Categories)
}

// ExistsWithNameAndCategory reports whether a template other than excludeID
// collides with name in categoryID under the duplicate rule.
func (st *State) ExistsWithNameAndCategory(name, categoryID, excludeID string) (task.Template, bool) {
	return task.FindDuplicate(st.TemplateList(), st.CategoryIndex(), name, categoryID, excludeID)
}

// References lists the ids of every entity that points at one category.
type References struct {
	Templates []string
	Instances []string
	Goals     []string
	Events    []string
}

// Count returns the total number of referencing entities.
func (r References) Count() int {
	return len(r.Templates) + len(r.Instances) + len(r.Goals) + len(r.Events)
}

// FindByCategory returns the ids of the entities referencing categoryID,
// each list sorted.
func (st *State) FindByCategory(categoryID string) References {
	var refs References
	if categoryID == "" {
		return refs
	}
	for id, t := range st.Templates {
		if t.Info.CategoryID == categoryID {
			refs.Templates = append(refs.Templates, id)
		}
	}
	for id, inst := range st.Instances {
		if inst.Info.CategoryID == categoryID {
			refs.Instances = append(refs.Instances, id)
		}
	}
	for id, g := range st.Goals {
		if g.Info.CategoryID == categoryID {
			refs.Goals = append(refs.Goals, id)
		}
	}
	for id, e := range st.Events {
		if e.Info.CategoryID == categoryID {
			refs.Events = append(refs.Events, id)
		}
	}
	sort.Strings(refs.Templates)
	sort.Strings(refs.Instances)
	sort.Strings(refs.Goals)
	sort.Strings(refs.Events)
	return refs
}

// CategoryList returns the categories sorted by name.
func (st *State) CategoryList() []category.Category {
	out := make([]category.Category, 0, len(st.Categories))
	for _, c := range st.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessFold(out[i].Name, out[j].Name, out[i].ID, out[j].ID)
	})
	return out
}

// TemplateList returns the templates sorted by name.
func (st *State) TemplateList() []task.Template {
	out := make([]task.Template, 0, len(st.Templates))
	for _, t := range st.Templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessFold(out[i].Info.Name, out[j].Info.Name, out[i].ID(), out[j].ID())
	})
	return out
}

// InstanceList returns the instances ordered by begin date, then for display.
func (st *State) InstanceList() []task.Instance {
	out := make([]task.Instance, 0, len(st.Instances))
	for _, inst := range st.Instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	task.SortForDisplay(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BeginDate.Before(out[j].BeginDate)
	})
	return out
}

// GoalList returns the goals sorted by begin date, then name.
func (st *State) GoalList() []goal.Goal {
	out := make([]goal.Goal, 0, len(st.Goals))
	for _, g := range st.Goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BeginDate.Equal(out[j].BeginDate) {
			return out[i].BeginDate.Before(out[j].BeginDate)
		}
		return lessFold(out[i].Info.Name, out[j].Info.Name, out[i].ID(), out[j].ID())
	})
	return out
}

// EventList returns the events sorted by date, then name.
func (st *State) EventList() []event.Event {
	out := make([]event.Event, 0, len(st.Events))
	for _, e := range st.Events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return lessFold(out[i].Info.Name, out[j].Info.Name, out[i].ID(), out[j].ID())
	})
	return out
}

// WellnessList returns the wellness entries in logging order.
func (st *State) WellnessList() []wellness.Entry {
	out := make([]wellness.Entry, 0, len(st.Wellness))
	for _, e := range st.Wellness {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.Before(out[j].LoggedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func lessFold(a, b, idA, idB string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
