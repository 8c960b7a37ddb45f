package tracker

import (
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/task"
)

// CreateCategory registers a new category. Category names are unique under
// exact comparison; names differing only in case may coexist.
func (t *Tracker) CreateCategory(name, color string) (category.Category, error) {
	c, err := category.New(name, color)
	if err != nil {
		return category.Category{}, err
	}
	err = t.withRegistry(func() error {
		return t.store.Update(func(st *store.State) error {
			if _, ok := findCategoryByName(st, c.Name); ok {
				return &errs.DuplicateError{Kind: "category", Name: c.Name}
			}
			st.Categories[c.ID] = c
			return nil
		})
	})
	if err != nil {
		return category.Category{}, err
	}
	return c, nil
}

// RenameCategory renames the category ref in place. Entities referencing it
// keep their category id, so they resolve to the new name immediately.
// Stored daily summaries move their breakdown counts to the new name.
func (t *Tracker) RenameCategory(ref, newName string) (category.Category, error) {
	newName, err := category.ValidateName(newName)
	if err != nil {
		return category.Category{}, err
	}

	var renamed category.Category
	var affected int
	err = t.withSweep(func(st *store.State) ([]day.Date, error) {
		return summaryDays(st), nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolveCategory(st, ref)
			if err != nil {
				return err
			}
			c := st.Categories[id]
			if other, ok := findCategoryByName(st, newName); ok && other.ID != id {
				return &errs.DuplicateError{Kind: "category", Name: newName}
			}
			oldName := c.Name
			if err := c.Rename(newName); err != nil {
				return err
			}
			st.Categories[id] = c

			for date, s := range st.Summaries {
				if s.RenameCategory(oldName, c.Name) {
					st.Summaries[date] = s
				}
			}
			renamed = c
			affected = st.FindByCategory(id).Count()
			return nil
		})
	})
	if err != nil {
		return category.Category{}, err
	}
	t.logger.CategoryCascade(CategoryCascadeLog{Action: "rename", Category: renamed, Affected: affected})
	return renamed, nil
}

// DeleteCategory removes the category ref and clears the reference on every
// template, instance, goal and event that held it, in one atomic update.
// Stored daily summaries keep its completion counts under its retired
// label. It returns the number of entities that were decategorized.
func (t *Tracker) DeleteCategory(ref string) (int, error) {
	var deleted category.Category
	var affected int
	err := t.withSweep(func(st *store.State) ([]day.Date, error) {
		id, err := resolveCategory(st, ref)
		if err != nil {
			return nil, err
		}
		days := summaryDays(st)
		days = append(days, instanceDays(st, func(inst task.Instance) bool {
			return inst.Info.CategoryID == id
		})...)
		for _, e := range st.Events {
			if e.Info.CategoryID == id {
				days = append(days, e.Date)
			}
		}
		return days, nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolveCategory(st, ref)
			if err != nil {
				return err
			}
			deleted = st.Categories[id]

			refs := st.FindByCategory(id)
			for _, tid := range refs.Templates {
				tmpl := st.Templates[tid]
				tmpl.Info.SetCategory("")
				st.Templates[tid] = tmpl
			}
			for _, iid := range refs.Instances {
				inst := st.Instances[iid]
				inst.Info.SetCategory("")
				st.Instances[iid] = inst
			}
			for _, gid := range refs.Goals {
				g := st.Goals[gid]
				g.Info.SetCategory("")
				st.Goals[gid] = g
			}
			for _, eid := range refs.Events {
				e := st.Events[eid]
				e.Info.SetCategory("")
				st.Events[eid] = e
			}
			for date, s := range st.Summaries {
				if s.RenameCategory(deleted.Name, deleted.RetiredLabel()) {
					st.Summaries[date] = s
				}
			}
			delete(st.Categories, id)
			affected = refs.Count()
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	t.logger.CategoryCascade(CategoryCascadeLog{Action: "delete", Category: deleted, Affected: affected})
	return affected, nil
}

// FindCategoryByName returns the category whose name equals name exactly.
func (t *Tracker) FindCategoryByName(name string) (category.Category, bool, error) {
	st, err := t.load()
	if err != nil {
		return category.Category{}, false, err
	}
	c, ok := findCategoryByName(st, name)
	return c, ok, nil
}

// CategoryExistsByName reports whether a category is named exactly name.
func (t *Tracker) CategoryExistsByName(name string) (bool, error) {
	_, ok, err := t.FindCategoryByName(name)
	return ok, err
}

// ListCategories returns every category sorted by name.
func (t *Tracker) ListCategories() ([]category.Category, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.CategoryList(), nil
}

// CategoryIndex returns the current id-to-category index.
func (t *Tracker) CategoryIndex() (category.Index, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	return st.CategoryIndex(), nil
}

// ResolveCategory turns an exact category name or an id prefix into an id.
// The empty ref resolves to the empty id.
func (t *Tracker) ResolveCategory(ref string) (string, error) {
	st, err := t.load()
	if err != nil {
		return "", err
	}
	return categoryRef(st, ref)
}

func findCategoryByName(st *store.State, name string) (category.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range st.CategoryList() {
		if c.Name == name {
			return c, true
		}
	}
	return category.Category{}, false
}

func resolveCategory(st *store.State, ref string) (string, error) {
	if c, ok := findCategoryByName(st, ref); ok {
		return c.ID, nil
	}
	return resolve("category", st.Categories, ref)
}

// categoryRef resolves an optional category reference inside an update.
func categoryRef(st *store.State, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	return resolveCategory(st, ref)
}
