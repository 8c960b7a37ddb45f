package task

import (
	"testing"
	"time"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
)

var (
	monday  = day.MustParse("2024-03-04")
	tuesday = day.MustParse("2024-03-05")
	noon    = monday.Time().Add(12 * time.Hour)
)

func mustTemplate(t *testing.T, name, categoryID string, oneTime bool) Template {
	t.Helper()
	tmpl, err := NewTemplate(name, "", categoryID, oneTime, monday)
	if err != nil {
		t.Fatalf("NewTemplate(%q) failed: %v", name, err)
	}
	return tmpl
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{"", PriorityMedium, false},
		{"HIGH", PriorityHigh, false},
		{" low ", PriorityLow, false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if !errs.IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPromoteDefaults(t *testing.T) {
	tmpl := mustTemplate(t, "Study", "", false)

	inst, err := Promote(tmpl, monday, PromoteOptions{})
	if err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	if inst.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want medium", inst.Priority)
	}
	if !inst.BeginDate.Equal(monday) {
		t.Errorf("BeginDate = %v, want %v", inst.BeginDate, monday)
	}
	if inst.HasDueDate() {
		t.Error("expected no due date by default")
	}
	if inst.TemplateID != tmpl.ID() || inst.Info.Name != "Study" {
		t.Errorf("instance does not reference its template: %+v", inst)
	}
	if inst.IsCompleted || inst.CompletedAt != nil {
		t.Error("new instance must be incomplete")
	}
}

func TestPromoteRejectsDueBeforeBegin(t *testing.T) {
	tmpl := mustTemplate(t, "Study", "", false)

	_, err := Promote(tmpl, tuesday, PromoteOptions{DueDate: monday})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	inst, err := Promote(tmpl, monday, PromoteOptions{DueDate: monday, Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("due date equal to begin date should be valid: %v", err)
	}
	if inst.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want high", inst.Priority)
	}
}

func TestPromoteTwiceYieldsIndependentInstances(t *testing.T) {
	tmpl := mustTemplate(t, "Study", "", false)
	a, _ := Promote(tmpl, monday, PromoteOptions{})
	b, _ := Promote(tmpl, monday, PromoteOptions{})

	if a.ID == b.ID {
		t.Error("instances must have distinct ids")
	}
	if !a.Same(b) {
		t.Error("instances of one template are equal by template identity")
	}
	if err := a.Complete(noon); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if b.IsCompleted {
		t.Error("completing one instance must not affect the other")
	}
}

func TestCompletionTransitions(t *testing.T) {
	inst, _ := Promote(mustTemplate(t, "Gym", "", true), monday, PromoteOptions{})

	if err := inst.Uncomplete(); !errs.IsState(err) {
		t.Fatalf("Uncomplete on incomplete: expected StateError, got %v", err)
	}
	if err := inst.Complete(noon); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !inst.IsCompleted || inst.CompletedAt == nil || !inst.CompletedAt.Equal(noon) {
		t.Fatalf("unexpected completion state: %+v", inst)
	}
	if err := inst.Complete(noon); !errs.IsState(err) {
		t.Fatalf("double Complete: expected StateError, got %v", err)
	}
	if err := inst.Uncomplete(); err != nil {
		t.Fatalf("Uncomplete failed: %v", err)
	}
	if inst.IsCompleted || inst.CompletedAt != nil {
		t.Fatalf("uncompleted instance still carries completion: %+v", inst)
	}
	if err := inst.Validate(); err != nil {
		t.Errorf("invariant broken: %v", err)
	}
}

func TestSetCompletedIsPermissive(t *testing.T) {
	inst, _ := Promote(mustTemplate(t, "Gym", "", false), monday, PromoteOptions{})

	steps := []struct {
		completed   bool
		wantChanged bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{false, true},
	}
	for i, step := range steps {
		changed := inst.SetCompleted(step.completed, noon)
		if changed != step.wantChanged {
			t.Errorf("step %d: changed = %v, want %v", i, changed, step.wantChanged)
		}
		if inst.IsCompleted != (inst.CompletedAt != nil) {
			t.Fatalf("step %d: completion invariant broken: %+v", i, inst)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	inst, _ := Promote(mustTemplate(t, "Report", "", false), monday, PromoteOptions{DueDate: tuesday})
	wednesday := tuesday.AddDays(1)

	if inst.IsOverdue(tuesday) {
		t.Error("not overdue on its due date")
	}
	if !inst.IsOverdue(wednesday) {
		t.Error("expected overdue the day after its due date")
	}
	_ = inst.Complete(noon)
	if inst.IsOverdue(wednesday) {
		t.Error("completed instances are never overdue")
	}

	undated, _ := Promote(mustTemplate(t, "Read", "", false), monday, PromoteOptions{})
	if undated.IsOverdue(wednesday.AddDays(30)) {
		t.Error("instances without a due date are never overdue")
	}
}

func TestSetDueDate(t *testing.T) {
	inst, _ := Promote(mustTemplate(t, "Report", "", false), tuesday, PromoteOptions{})
	if err := inst.SetDueDate(monday); !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if inst.HasDueDate() {
		t.Error("rejected due date must not be applied")
	}
	if err := inst.SetDueDate(tuesday.AddDays(3)); err != nil {
		t.Fatalf("SetDueDate failed: %v", err)
	}
	if err := inst.SetDueDate(day.Date{}); err != nil || inst.HasDueDate() {
		t.Fatalf("clearing the due date failed: %v", err)
	}
}

func TestValidateCatchesBrokenInvariant(t *testing.T) {
	inst := Instance{ID: "x", IsCompleted: true, BeginDate: monday}
	if err := inst.Validate(); !errs.IsState(err) {
		t.Errorf("expected StateError, got %v", err)
	}
	at := noon
	inst = Instance{ID: "x", CompletedAt: &at, BeginDate: monday}
	if err := inst.Validate(); !errs.IsState(err) {
		t.Errorf("expected StateError, got %v", err)
	}
}

func TestFindDuplicate(t *testing.T) {
	work := category.Category{ID: "w", Name: "Work"}
	home := category.Category{ID: "h", Name: "Home"}
	index := category.NewIndex([]category.Category{work, home})

	study := mustTemplate(t, "Study", "w", false)
	plain := mustTemplate(t, "Read", "", false)
	templates := []Template{study, plain}

	tests := []struct {
		name       string
		input      string
		categoryID string
		excludeID  string
		want       bool
	}{
		{"same name same category", "Study", "w", "", true},
		{"case-insensitive name", "  sTuDy ", "w", "", true},
		{"different category", "Study", "h", "", false},
		{"named vs none", "Study", "", "", false},
		{"none vs none", "read", "", "", true},
		{"none vs named", "Read", "w", "", false},
		{"excluding self", "Study", "w", study.ID(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := FindDuplicate(templates, index, tt.input, tt.categoryID, tt.excludeID)
			if got != tt.want {
				t.Errorf("FindDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindDuplicateResolvesRenamedCategory(t *testing.T) {
	work := category.Category{ID: "w", Name: "Work"}
	office := category.Category{ID: "o", Name: "office"}
	study := mustTemplate(t, "Study", "w", false)

	before := category.NewIndex([]category.Category{work, office})
	if _, dup := FindDuplicate([]Template{study}, before, "Study", "o", ""); dup {
		t.Fatal("Work and office are distinct before the rename")
	}

	work.Name = "Office"
	after := category.NewIndex([]category.Category{work, office})
	if _, dup := FindDuplicate([]Template{study}, after, "Study", "o", ""); !dup {
		t.Fatal("after renaming Work to Office, office/Office must collide")
	}
}

func TestSortForDisplay(t *testing.T) {
	mk := func(name string, p Priority, due day.Date, done bool) Instance {
		inst, err := Promote(mustTemplate(t, name, "", false), monday, PromoteOptions{Priority: p, DueDate: due})
		if err != nil {
			t.Fatalf("Promote failed: %v", err)
		}
		if done {
			_ = inst.Complete(noon)
		}
		return inst
	}

	instances := []Instance{
		mk("done", PriorityHigh, day.Date{}, true),
		mk("low", PriorityLow, day.Date{}, false),
		mk("high-undated", PriorityHigh, day.Date{}, false),
		mk("high-dated", PriorityHigh, tuesday, false),
	}
	SortForDisplay(instances)

	want := []string{"high-dated", "high-undated", "low", "done"}
	for i, name := range want {
		if instances[i].Info.Name != name {
			t.Fatalf("position %d = %q, want %q", i, instances[i].Info.Name, name)
		}
	}
}
