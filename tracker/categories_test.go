package tracker

import (
	"strings"
	"testing"

	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/task"
)

func TestCreateCategory(t *testing.T) {
	h := newHarness(t)

	work, err := h.CreateCategory("  Work ", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if work.Name != "Work" || work.Color != "#808080" {
		t.Fatalf("unexpected category %+v", work)
	}

	_, err = h.CreateCategory("Work", "#fff")
	assertKind(t, err, "duplicate")

	if _, err := h.CreateCategory("work", ""); err != nil {
		t.Fatalf("names differing in case may coexist: %v", err)
	}

	for _, bad := range []string{"", "   ", strings.Repeat("x", 21)} {
		_, err := h.CreateCategory(bad, "")
		assertKind(t, err, "validation")
	}

	_, err = h.CreateCategory("Home", "not-a-color")
	assertKind(t, err, "validation")

	if got := len(h.state(t).Categories); got != 2 {
		t.Fatalf("rejected creations must not persist, got %d categories", got)
	}
}

func TestFindCategoryByNameIsExact(t *testing.T) {
	h := newHarness(t)
	work, _ := h.CreateCategory("Work", "")

	found, ok, err := h.FindCategoryByName("Work")
	if err != nil || !ok || found.ID != work.ID {
		t.Fatalf("FindCategoryByName(Work) = %+v, %v, %v", found, ok, err)
	}
	if ok, _ := h.CategoryExistsByName("work"); ok {
		t.Fatal("lookup by name is case-sensitive")
	}
}

func TestRenameCategoryScenario(t *testing.T) {
	h := newHarness(t)
	work, _ := h.CreateCategory("Work", "")
	study, err := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	inst, err := h.AddToToday(study.ID(), task.PromoteOptions{})
	if err != nil {
		t.Fatalf("AddToToday failed: %v", err)
	}
	if _, err := h.Complete(inst.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	renamed, err := h.RenameCategory(work.ID, "Office")
	if err != nil {
		t.Fatalf("RenameCategory failed: %v", err)
	}
	if renamed.ID != work.ID || renamed.Name != "Office" {
		t.Fatalf("rename changed identity: %+v", renamed)
	}

	st := h.state(t)
	index := st.CategoryIndex()
	if got := index.Name(st.Templates[study.ID()].Info.CategoryID); got != "Office" {
		t.Errorf("template resolves to %q, want Office", got)
	}
	if got := index.Name(st.Instances[inst.ID].Info.CategoryID); got != "Office" {
		t.Errorf("instance resolves to %q, want Office", got)
	}
	if st.Templates[study.ID()].ID() != study.ID() || st.Instances[inst.ID].ID != inst.ID {
		t.Error("entity ids must not change on rename")
	}
	breakdown := st.Summaries[monday].CategoryBreakdown
	if breakdown["Office"] != 1 || breakdown["Work"] != 0 {
		t.Errorf("breakdown = %v, want Office moved from Work", breakdown)
	}

	office, err := h.CreateCategory("office", "")
	if err != nil {
		t.Fatalf("CreateCategory(office) failed: %v", err)
	}
	_, err = h.CreateTemplate(TemplateInput{Name: "study", Category: office.ID})
	assertKind(t, err, "duplicate")
	_, err = h.CreateTemplate(TemplateInput{Name: "Study", Category: "Office"})
	assertKind(t, err, "duplicate")

	if len(h.log.cascades) != 1 || h.log.cascades[0].Action != "rename" || h.log.cascades[0].Affected != 2 {
		t.Errorf("cascade log = %+v", h.log.cascades)
	}
}

func TestRenameCategoryRejections(t *testing.T) {
	h := newHarness(t)
	work, _ := h.CreateCategory("Work", "")
	h.CreateCategory("Home", "")

	_, err := h.RenameCategory(work.ID, "Home")
	assertKind(t, err, "duplicate")
	_, err = h.RenameCategory(work.ID, " ")
	assertKind(t, err, "validation")
	_, err = h.RenameCategory("0000", "Other")
	assertKind(t, err, "notfound")

	if _, err := h.RenameCategory("Work", "Work"); err != nil {
		t.Fatalf("renaming to the current name is allowed: %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	h := newHarness(t)
	work, _ := h.CreateCategory("Work", "")
	home, _ := h.CreateCategory("Home", "")

	study, _ := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})
	report, _ := h.CreateTemplate(TemplateInput{Name: "Report", Category: "Work"})
	dishes, _ := h.CreateTemplate(TemplateInput{Name: "Dishes", Category: "Home"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})
	g, err := h.CreateGoal(GoalInput{Name: "Study 3x", Category: "Work", Target: study.ID(), Period: goal.PeriodWeek, Frequency: 3, Window: true})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	ev, err := h.CreateEvent(EventInput{Name: "Standup", Category: "Work", Date: monday})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	affected, err := h.DeleteCategory(work.ID)
	if err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if affected != 5 {
		t.Fatalf("affected = %d, want 5", affected)
	}

	st := h.state(t)
	if _, ok := st.Categories[work.ID]; ok {
		t.Fatal("category still present")
	}
	if refs := st.FindByCategory(work.ID); refs.Count() != 0 {
		t.Fatalf("dangling references: %+v", refs)
	}
	for _, id := range []string{study.ID(), report.ID()} {
		tmpl, ok := st.Templates[id]
		if !ok || tmpl.Info.HasCategory() {
			t.Errorf("template %s should survive decategorized: %+v", id, tmpl)
		}
	}
	if st.Instances[inst.ID].Info.HasCategory() {
		t.Error("instance should be decategorized")
	}
	if st.Goals[g.ID()].Info.HasCategory() || st.Events[ev.ID()].Info.HasCategory() {
		t.Error("goals and events should be decategorized")
	}
	if st.Templates[dishes.ID()].Info.CategoryID != home.ID {
		t.Error("other categories must be untouched")
	}

	_, err = h.DeleteCategory(work.ID)
	assertKind(t, err, "notfound")
}

func TestDeletedCategoryCountsStayWithIt(t *testing.T) {
	h := newHarness(t)
	work, _ := h.CreateCategory("Work", "")
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})
	if _, err := h.Complete(inst.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := h.DeleteCategory(work.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	reborn, err := h.CreateCategory("Work", "")
	if err != nil {
		t.Fatalf("recreating Work failed: %v", err)
	}
	if _, err := h.RenameCategory(reborn.ID, "Office"); err != nil {
		t.Fatalf("RenameCategory failed: %v", err)
	}

	breakdown := h.state(t).Summaries[monday].CategoryBreakdown
	if breakdown["Office"] != 0 || breakdown["Work"] != 0 {
		t.Fatalf("deleted category's counts moved to a new category: %v", breakdown)
	}
	if breakdown[work.RetiredLabel()] != 1 {
		t.Fatalf("breakdown = %v, want the count under %q", breakdown, work.RetiredLabel())
	}
}

func TestCreateTemplateUnknownCategory(t *testing.T) {
	h := newHarness(t)
	_, err := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Nowhere"})
	assertKind(t, err, "notfound")
	if len(h.state(t).Templates) != 0 {
		t.Fatal("rejected template persisted")
	}
}
