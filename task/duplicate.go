package task

import (
	"strings"

	"github.com/amonks/daybook/category"
)

// FindDuplicate returns the template in templates that collides with a
// template named name in category categoryID, ignoring excludeID.
//
// Two templates collide when their names match case-insensitively and their
// categories resolve to the same name, also case-insensitively. Category ids
// are re-resolved through categories on every call because a category can be
// renamed independently of the templates that reference it. "No category" is
// its own bucket and never collides with a named category.
func FindDuplicate(templates []Template, categories category.Index, name, categoryID, excludeID string) (Template, bool) {
	name = strings.TrimSpace(name)
	wantCategory := categories.Name(categoryID)

	for _, t := range templates {
		if excludeID != "" && t.ID() == excludeID {
			continue
		}
		if !strings.EqualFold(t.Info.Name, name) {
			continue
		}
		if !strings.EqualFold(categories.Name(t.Info.CategoryID), wantCategory) {
			continue
		}
		return t, true
	}
	return Template{}, false
}
