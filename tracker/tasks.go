package tracker

import (
	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/internal/validation"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
)

// TemplateInput holds the fields of a new template. Category is a category
// name or id prefix; empty means no category.
type TemplateInput struct {
	Name        string
	Description string
	Category    string
	OneTime     bool
}

// CreateTemplate adds a template to the pool. It fails with a DuplicateError
// when a template with the same name exists in a category of the same name.
func (t *Tracker) CreateTemplate(input TemplateInput) (task.Template, error) {
	name, err := info.ValidateName(input.Name)
	if err != nil {
		return task.Template{}, err
	}
	description, err := info.ValidateDescription(input.Description)
	if err != nil {
		return task.Template{}, err
	}

	var created task.Template
	err = t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			categoryID, err := categoryRef(st, input.Category)
			if err != nil {
				return err
			}
			if err := checkDuplicate(st, name, categoryID, ""); err != nil {
				return err
			}
			tmpl, err := task.NewTemplate(name, description, categoryID, input.OneTime, t.clock.Today())
			if err != nil {
				return err
			}
			st.Templates[tmpl.ID()] = tmpl
			created = tmpl
			return nil
		})
	})
	if err != nil {
		return task.Template{}, err
	}
	return created, nil
}

// TemplateEdit lists the template fields to change. Nil means unchanged.
// An empty Category clears it.
type TemplateEdit struct {
	Name        *string
	Description *string
	Category    *string
	OneTime     *bool
}

// EditTemplate updates a template and copies the new display fields onto
// its instances. The duplicate rule is re-run excluding the template itself.
func (t *Tracker) EditTemplate(ref string, edit TemplateEdit) (task.Template, error) {
	if edit.Name != nil {
		if _, err := info.ValidateName(*edit.Name); err != nil {
			return task.Template{}, err
		}
	}
	if edit.Description != nil {
		if _, err := info.ValidateDescription(*edit.Description); err != nil {
			return task.Template{}, err
		}
	}

	var updated task.Template
	err := t.withSweep(func(st *store.State) ([]day.Date, error) {
		id, err := resolve("template", st.Templates, ref)
		if err != nil {
			return nil, err
		}
		return instanceDays(st, func(inst task.Instance) bool {
			return inst.TemplateID == id
		}), nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("template", st.Templates, ref)
			if err != nil {
				return err
			}
			tmpl := st.Templates[id]
			if edit.Name != nil {
				if err := tmpl.Info.SetName(*edit.Name); err != nil {
					return err
				}
			}
			if edit.Description != nil {
				if err := tmpl.Info.SetDescription(*edit.Description); err != nil {
					return err
				}
			}
			if edit.Category != nil {
				categoryID, err := categoryRef(st, *edit.Category)
				if err != nil {
					return err
				}
				tmpl.Info.SetCategory(categoryID)
			}
			if edit.OneTime != nil {
				tmpl.OneTime = *edit.OneTime
			}
			if err := checkDuplicate(st, tmpl.Info.Name, tmpl.Info.CategoryID, id); err != nil {
				return err
			}

			st.Templates[id] = tmpl
			for iid, inst := range st.Instances {
				if inst.TemplateID != id {
					continue
				}
				inst.Info.Name = tmpl.Info.Name
				inst.Info.Description = tmpl.Info.Description
				inst.Info.CategoryID = tmpl.Info.CategoryID
				st.Instances[iid] = inst
			}
			updated = tmpl
			return nil
		})
	})
	if err != nil {
		return task.Template{}, err
	}
	return updated, nil
}

// DeleteTemplate removes a template from the pool. Its instances keep their
// own copy of its display fields and are left in place.
func (t *Tracker) DeleteTemplate(ref string) (task.Template, error) {
	var deleted task.Template
	err := t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("template", st.Templates, ref)
			if err != nil {
				return err
			}
			deleted = st.Templates[id]
			delete(st.Templates, id)
			return nil
		})
	})
	if err != nil {
		return task.Template{}, err
	}
	return deleted, nil
}

// ShowTemplate returns one template.
func (t *Tracker) ShowTemplate(ref string) (task.Template, error) {
	st, err := t.load()
	if err != nil {
		return task.Template{}, err
	}
	id, err := resolve("template", st.Templates, ref)
	if err != nil {
		return task.Template{}, err
	}
	return st.Templates[id], nil
}

// ListTemplates returns the template pool sorted by name.
func (t *Tracker) ListTemplates() ([]task.Template, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.TemplateList(), nil
}

func checkDuplicate(st *store.State, name, categoryID, excludeID string) error {
	if _, ok := st.ExistsWithNameAndCategory(name, categoryID, excludeID); ok {
		return &errs.DuplicateError{Name: name, Category: st.CategoryIndex().Name(categoryID)}
	}
	return nil
}

// AddToToday promotes a template to an instance beginning today. A one-time
// template leaves the pool in the same update, so promoting it again fails
// with a NotFoundError.
func (t *Tracker) AddToToday(ref string, opts task.PromoteOptions) (task.Instance, error) {
	today := t.clock.Today()
	if err := task.ValidateDueDate(today, opts.DueDate); err != nil {
		return task.Instance{}, err
	}

	var promoted task.Instance
	var retired *task.Template
	err := t.withRegistry(func() error {
		return t.withDay(today, func() error {
			return t.store.Update(func(st *store.State) error {
				id, err := resolve("template", st.Templates, ref)
				if err != nil {
					return err
				}
				tmpl := st.Templates[id]
				inst, err := task.Promote(tmpl, today, opts)
				if err != nil {
					return err
				}
				st.Instances[inst.ID] = inst
				if tmpl.OneTime {
					delete(st.Templates, id)
					retired = &tmpl
				}

				s := summaryFor(st, today)
				s.AddScheduledTask(inst)
				st.Summaries[today] = s

				promoted = inst
				return nil
			})
		})
	})
	if err != nil {
		return task.Instance{}, err
	}
	t.logger.Promoted(PromotedLog{Instance: promoted})
	if retired != nil {
		t.logger.TemplateRetired(TemplateRetiredLog{Template: *retired})
	}
	return promoted, nil
}

// Complete marks an instance completed now. Completing an instance twice is
// a StateError. The completion is credited to the summary of the
// instance's day and to the ledger of every goal targeting its template.
func (t *Tracker) Complete(ref string) (task.Instance, error) {
	inst, _, err := t.updateCompletion(ref, func(inst *task.Instance) (bool, error) {
		if err := inst.Complete(t.clock.Now()); err != nil {
			return false, err
		}
		return true, nil
	})
	return inst, err
}

// Uncomplete reopens a completed instance. Reopening an open instance is a
// StateError. The summary is append-only and keeps the earlier completion,
// but goal ledgers drop the entry this instance credited.
func (t *Tracker) Uncomplete(ref string) (task.Instance, error) {
	inst, _, err := t.updateCompletion(ref, func(inst *task.Instance) (bool, error) {
		if err := inst.Uncomplete(); err != nil {
			return false, err
		}
		return true, nil
	})
	return inst, err
}

// SetCompleted moves an instance to the requested completion state and
// reports whether it changed. Unlike Complete and Uncomplete it never fails
// on a redundant request, which makes it safe for bulk synchronization.
func (t *Tracker) SetCompleted(ref string, completed bool) (task.Instance, bool, error) {
	return t.updateCompletion(ref, func(inst *task.Instance) (bool, error) {
		return inst.SetCompleted(completed, t.clock.Now()), nil
	})
}

func (t *Tracker) updateCompletion(ref string, apply func(*task.Instance) (bool, error)) (task.Instance, bool, error) {
	var result task.Instance
	var changed bool
	var achieved []GoalAchievedLog
	today := t.clock.Today()

	err := t.withRegistry(func() error {
		return t.withInstanceDay(ref, func() error {
			return t.store.Update(func(st *store.State) error {
				id, err := resolve("task", st.Instances, ref)
				if err != nil {
					return err
				}
				inst := st.Instances[id]
				changed, err = apply(&inst)
				if err != nil {
					return err
				}
				if changed {
					st.Instances[id] = inst
					if inst.IsCompleted {
						creditSummary(st, inst)
						achieved = creditGoals(st, inst, today)
					} else {
						withdrawGoalCredits(st, inst)
					}
				}
				result = inst
				return nil
			})
		})
	})
	if err != nil {
		return task.Instance{}, false, err
	}
	for _, entry := range achieved {
		t.logger.GoalAchieved(entry)
	}
	return result, changed, nil
}

// withInstanceDay runs fn holding the lock of the day the instance ref
// begins on. fn must re-resolve ref inside its own update.
func (t *Tracker) withInstanceDay(ref string, fn func() error) error {
	return t.withEntityDay(func(st *store.State) (day.Date, error) {
		id, err := resolve("task", st.Instances, ref)
		if err != nil {
			return day.Date{}, err
		}
		return st.Instances[id].BeginDate, nil
	}, fn)
}

func summaryFor(st *store.State, d day.Date) summary.DailySummary {
	if s, ok := st.Summaries[d]; ok {
		return s
	}
	return summary.Build(d, st.InstanceList(), st.CategoryIndex())
}

func creditSummary(st *store.State, inst task.Instance) {
	s := summaryFor(st, inst.BeginDate)
	s.AddScheduledTask(inst)
	s.MarkCompleted(inst, st.CategoryIndex().Name(inst.Info.CategoryID))
	st.Summaries[inst.BeginDate] = s
}

// creditGoals records inst's completion on every goal targeting its
// template. A goal the instance already credited is left alone.
func creditGoals(st *store.State, inst task.Instance, on day.Date) []GoalAchievedLog {
	var achieved []GoalAchievedLog
	for gid, g := range st.Goals {
		if g.TargetTaskID != inst.TemplateID {
			continue
		}
		wasAchieved := g.IsAchieved(on)
		if !g.Credit(inst.ID, on) {
			continue
		}
		st.Goals[gid] = g
		if !wasAchieved && g.IsAchieved(on) {
			achieved = append(achieved, GoalAchievedLog{Goal: g, Progress: g.CurrentProgress(on), On: on})
		}
	}
	return achieved
}

func withdrawGoalCredits(st *store.State, inst task.Instance) {
	for gid, g := range st.Goals {
		if g.Withdraw(inst.ID) {
			st.Goals[gid] = g
		}
	}
}

// EditDueDate replaces an instance's due date; the zero date clears it.
func (t *Tracker) EditDueDate(ref string, due day.Date) (task.Instance, error) {
	return t.editInstance(ref, func(inst *task.Instance) error {
		return inst.SetDueDate(due)
	})
}

// SetPriority changes an instance's priority.
func (t *Tracker) SetPriority(ref string, priority task.Priority) (task.Instance, error) {
	if !priority.IsValid() {
		return task.Instance{}, validation.InvalidValue("priority", priority, task.ValidPriorities())
	}
	return t.editInstance(ref, func(inst *task.Instance) error {
		inst.Priority = priority
		return nil
	})
}

func (t *Tracker) editInstance(ref string, apply func(*task.Instance) error) (task.Instance, error) {
	var result task.Instance
	err := t.withInstanceDay(ref, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("task", st.Instances, ref)
			if err != nil {
				return err
			}
			inst := st.Instances[id]
			if err := apply(&inst); err != nil {
				return err
			}
			st.Instances[id] = inst
			result = inst
			return nil
		})
	})
	if err != nil {
		return task.Instance{}, err
	}
	return result, nil
}

// DeleteInstance removes an instance. The day's summary is not adjusted.
func (t *Tracker) DeleteInstance(ref string) (task.Instance, error) {
	var deleted task.Instance
	err := t.withInstanceDay(ref, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("task", st.Instances, ref)
			if err != nil {
				return err
			}
			deleted = st.Instances[id]
			delete(st.Instances, id)
			return nil
		})
	})
	if err != nil {
		return task.Instance{}, err
	}
	return deleted, nil
}

// PurgeInstancesBefore deletes the instances that began before cutoff. Only
// completed instances are removed unless all is set. It is the deletion a
// day-rollover job calls; nothing in the tracker calls it on its own.
func (t *Tracker) PurgeInstancesBefore(cutoff day.Date, all bool) (int, error) {
	if cutoff.IsZero() {
		return 0, errs.Validation("cutoff date", "is required")
	}
	purgeable := func(inst task.Instance) bool {
		return inst.BeginDate.Before(cutoff) && (inst.IsCompleted || all)
	}
	purged := 0
	err := t.withSweep(func(st *store.State) ([]day.Date, error) {
		return instanceDays(st, purgeable), nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			for id, inst := range st.Instances {
				if purgeable(inst) {
					delete(st.Instances, id)
					purged++
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// InstanceFilter selects instances. Zero values match everything.
type InstanceFilter struct {
	// Day restricts to instances beginning on that day.
	Day day.Date

	// Open restricts to incomplete instances.
	Open bool

	// Overdue restricts to instances overdue as of today.
	Overdue bool
}

// ListInstances returns matching instances, grouped by day and sorted for
// display within each day.
func (t *Tracker) ListInstances(filter InstanceFilter) ([]task.Instance, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	today := t.clock.Today()
	var out []task.Instance
	for _, inst := range st.InstanceList() {
		if !filter.Day.IsZero() && !inst.BeginDate.Equal(filter.Day) {
			continue
		}
		if filter.Open && inst.IsCompleted {
			continue
		}
		if filter.Overdue && !inst.IsOverdue(today) {
			continue
		}
		out = append(out, inst)
	}
	return out, nil
}

// ShowInstance returns one instance.
func (t *Tracker) ShowInstance(ref string) (task.Instance, error) {
	st, err := t.load()
	if err != nil {
		return task.Instance{}, err
	}
	id, err := resolve("task", st.Instances, ref)
	if err != nil {
		return task.Instance{}, err
	}
	return st.Instances[id], nil
}

// IsOverdue evaluates the overdue predicate against the tracker's clock.
func (t *Tracker) IsOverdue(inst task.Instance) bool {
	return inst.IsOverdue(t.clock.Today())
}
