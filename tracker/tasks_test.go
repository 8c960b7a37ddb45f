package tracker

import (
	"strings"
	"sync"
	"testing"

	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
)

func TestPromotionScenario(t *testing.T) {
	h := newHarness(t)
	if _, err := h.CreateCategory("Work", ""); err != nil {
		t.Fatal(err)
	}
	study, err := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})
	if err != nil {
		t.Fatalf("CreateTemplate(Study) failed: %v", err)
	}

	first, err := h.AddToToday(study.ID(), task.PromoteOptions{})
	if err != nil {
		t.Fatalf("first promotion failed: %v", err)
	}
	second, err := h.AddToToday(study.ID(), task.PromoteOptions{Priority: task.PriorityHigh})
	if err != nil {
		t.Fatalf("second promotion failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("promotions must yield independent instances")
	}
	if _, ok := h.state(t).Templates[study.ID()]; !ok {
		t.Fatal("reusable template must stay in the pool")
	}

	gym, err := h.CreateTemplate(TemplateInput{Name: "Gym", OneTime: true})
	if err != nil {
		t.Fatalf("CreateTemplate(Gym) failed: %v", err)
	}
	if _, err := h.AddToToday(gym.ID(), task.PromoteOptions{}); err != nil {
		t.Fatalf("promoting Gym failed: %v", err)
	}
	if _, ok := h.state(t).Templates[gym.ID()]; ok {
		t.Fatal("one-time template must leave the pool")
	}
	_, err = h.AddToToday(gym.ID(), task.PromoteOptions{})
	assertKind(t, err, "notfound")

	instances, err := h.ListInstances(InstanceFilter{Day: monday})
	if err != nil {
		t.Fatal(err)
	}
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	if len(h.log.promoted) != 3 || len(h.log.retired) != 1 {
		t.Errorf("logs: %d promoted, %d retired", len(h.log.promoted), len(h.log.retired))
	}

	s, err := h.Summary(monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Scheduled) != 2 {
		t.Errorf("summary dedups by template: scheduled = %v", s.Scheduled)
	}
}

func TestAddToTodayValidation(t *testing.T) {
	h := newHarness(t)
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study", OneTime: true})

	_, err := h.AddToToday(study.ID(), task.PromoteOptions{DueDate: monday.AddDays(-1)})
	assertKind(t, err, "validation")
	_, err = h.AddToToday(study.ID(), task.PromoteOptions{Priority: "urgent"})
	assertKind(t, err, "validation")

	st := h.state(t)
	if _, ok := st.Templates[study.ID()]; !ok {
		t.Fatal("a rejected promotion must not retire the template")
	}
	if len(st.Instances) != 0 || len(st.Summaries) != 0 {
		t.Fatal("a rejected promotion must not write anything")
	}

	_, err = h.AddToToday("0000", task.PromoteOptions{})
	assertKind(t, err, "notfound")
}

func TestDuplicateTemplates(t *testing.T) {
	h := newHarness(t)
	h.CreateCategory("Work", "")
	h.CreateCategory("Home", "")
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})

	tests := []struct {
		name     string
		input    TemplateInput
		wantDupe bool
	}{
		{"same name and category", TemplateInput{Name: "STUDY", Category: "Work"}, true},
		{"other category", TemplateInput{Name: "Study", Category: "Home"}, false},
		{"no category", TemplateInput{Name: "Study"}, false},
		{"no category twice", TemplateInput{Name: "study"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateTemplate(tt.input)
			if tt.wantDupe {
				assertKind(t, err, "duplicate")
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	name := "Study"
	if _, err := h.EditTemplate(study.ID(), TemplateEdit{Name: &name}); err != nil {
		t.Fatalf("renaming a template to its own name must succeed: %v", err)
	}
	home := "Home"
	_, err := h.EditTemplate(study.ID(), TemplateEdit{Category: &home})
	assertKind(t, err, "duplicate")
}

func TestCreateTemplateValidation(t *testing.T) {
	h := newHarness(t)
	tests := []TemplateInput{
		{Name: ""},
		{Name: strings.Repeat("n", 21)},
		{Name: "ok", Description: strings.Repeat("d", 101)},
	}
	for _, input := range tests {
		_, err := h.CreateTemplate(input)
		assertKind(t, err, "validation")
	}
	if len(h.state(t).Templates) != 0 {
		t.Fatal("rejected templates persisted")
	}
}

func TestEditTemplatePropagatesToInstances(t *testing.T) {
	h := newHarness(t)
	h.CreateCategory("Work", "")
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})

	name, desc, cat := "Deep study", "chapter 4", "Work"
	updated, err := h.EditTemplate(study.ID(), TemplateEdit{Name: &name, Description: &desc, Category: &cat})
	if err != nil {
		t.Fatalf("EditTemplate failed: %v", err)
	}

	got := h.state(t).Instances[inst.ID]
	if got.Info.Name != "Deep study" || got.Info.Description != "chapter 4" || got.Info.CategoryID != updated.Info.CategoryID {
		t.Fatalf("instance not updated: %+v", got.Info)
	}

	bad := strings.Repeat("x", 30)
	_, err = h.EditTemplate(study.ID(), TemplateEdit{Name: &bad})
	assertKind(t, err, "validation")
}

func TestDeleteTemplateKeepsInstances(t *testing.T) {
	h := newHarness(t)
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})

	if _, err := h.DeleteTemplate(study.ID()); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	got, err := h.ShowInstance(inst.ID)
	if err != nil {
		t.Fatalf("instance should survive: %v", err)
	}
	if got.Info.Name != "Study" {
		t.Fatalf("instance lost its display copy: %+v", got)
	}
	_, err = h.DeleteTemplate(study.ID())
	assertKind(t, err, "notfound")
}

func TestCompletionLifecycle(t *testing.T) {
	h := newHarness(t)
	h.CreateCategory("Work", "")
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study", Category: "Work"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})

	_, err := h.Uncomplete(inst.ID)
	assertKind(t, err, "state")

	done, err := h.Complete(inst.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == nil {
		t.Fatalf("unexpected instance %+v", done)
	}
	_, err = h.Complete(inst.ID)
	assertKind(t, err, "state")

	s, _ := h.Summary(monday)
	if s.CompletionRate != 1 || s.CategoryBreakdown["Work"] != 1 {
		t.Fatalf("summary = %+v", s)
	}

	reopened, err := h.Uncomplete(inst.ID)
	if err != nil {
		t.Fatalf("Uncomplete failed: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatalf("unexpected instance %+v", reopened)
	}
	s, _ = h.Summary(monday)
	if s.CompletionRate != 1 {
		t.Fatalf("summaries are additive; rate = %v", s.CompletionRate)
	}

	if _, err := h.Complete(inst.ID); err != nil {
		t.Fatalf("re-completing after uncomplete failed: %v", err)
	}
	s, _ = h.Summary(monday)
	if s.CategoryBreakdown["Work"] != 1 {
		t.Fatalf("breakdown must not double count: %v", s.CategoryBreakdown)
	}
}

func TestSetCompletedIsIdempotent(t *testing.T) {
	h := newHarness(t)
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study"})
	inst, _ := h.AddToToday(study.ID(), task.PromoteOptions{})

	steps := []struct {
		completed bool
		changed   bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{false, true},
	}
	for i, step := range steps {
		got, changed, err := h.SetCompleted(inst.ID, step.completed)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if changed != step.changed || got.IsCompleted != step.completed {
			t.Fatalf("step %d: changed=%v completed=%v", i, changed, got.IsCompleted)
		}
		if got.IsCompleted != (got.CompletedAt != nil) {
			t.Fatalf("step %d: completion invariant broken", i)
		}
	}
}

func TestCompletionFeedsGoals(t *testing.T) {
	h := newHarness(t)
	gym, _ := h.CreateTemplate(TemplateInput{Name: "Gym"})
	g, err := h.CreateGoal(GoalInput{Name: "Gym 2x", Target: gym.ID(), Period: goal.PeriodWeek, Frequency: 2, Window: true})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}

	for _, d := range []day.Date{monday, monday.AddDays(2)} {
		h.clock.set(d)
		inst, err := h.AddToToday(gym.ID(), task.PromoteOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := h.SetCompleted(inst.ID, true); err != nil {
			t.Fatal(err)
		}
	}

	status, err := h.ShowGoal(g.ID())
	if err != nil {
		t.Fatal(err)
	}
	if status.Progress != 2 || !status.Achieved {
		t.Fatalf("status = %+v", status)
	}
	if len(h.log.achieved) != 1 {
		t.Fatalf("expected one achievement log, got %d", len(h.log.achieved))
	}
}

func TestEditDueDateAndOverdue(t *testing.T) {
	h := newHarness(t)
	report, _ := h.CreateTemplate(TemplateInput{Name: "Report"})
	inst, _ := h.AddToToday(report.ID(), task.PromoteOptions{DueDate: monday.AddDays(1)})

	_, err := h.EditDueDate(inst.ID, monday.AddDays(-1))
	assertKind(t, err, "validation")

	h.clock.set(monday.AddDays(2))
	overdue, err := h.ListInstances(InstanceFilter{Overdue: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(overdue) != 1 || !h.IsOverdue(overdue[0]) {
		t.Fatalf("expected one overdue instance, got %+v", overdue)
	}

	if _, err := h.EditDueDate(inst.ID, monday.AddDays(5)); err != nil {
		t.Fatalf("EditDueDate failed: %v", err)
	}
	overdue, _ = h.ListInstances(InstanceFilter{Overdue: true})
	if len(overdue) != 0 {
		t.Fatalf("extended due date should clear overdue, got %+v", overdue)
	}

	updated, err := h.SetPriority(inst.ID, task.PriorityLow)
	if err != nil || updated.Priority != task.PriorityLow {
		t.Fatalf("SetPriority = %+v, %v", updated, err)
	}
	_, err = h.SetPriority(inst.ID, "urgent")
	assertKind(t, err, "validation")
}

func TestDeleteAndPurgeInstances(t *testing.T) {
	h := newHarness(t)
	study, _ := h.CreateTemplate(TemplateInput{Name: "Study"})

	var created []task.Instance
	for i := 0; i < 3; i++ {
		h.clock.set(monday.AddDays(i))
		inst, err := h.AddToToday(study.ID(), task.PromoteOptions{})
		if err != nil {
			t.Fatal(err)
		}
		created = append(created, inst)
	}
	h.Complete(created[0].ID)

	if _, err := h.DeleteInstance(created[2].ID); err != nil {
		t.Fatalf("DeleteInstance failed: %v", err)
	}
	_, err := h.DeleteInstance(created[2].ID)
	assertKind(t, err, "notfound")

	cutoff := monday.AddDays(2)
	purged, err := h.PurgeInstancesBefore(cutoff, false)
	if err != nil || purged != 1 {
		t.Fatalf("purge completed = %d, %v", purged, err)
	}
	purged, err = h.PurgeInstancesBefore(cutoff, true)
	if err != nil || purged != 1 {
		t.Fatalf("purge all = %d, %v", purged, err)
	}
	if len(h.state(t).Instances) != 0 {
		t.Fatal("expected no instances left")
	}
	_, err = h.PurgeInstancesBefore(day.Date{}, true)
	assertKind(t, err, "validation")
}

func TestConcurrentCompletions(t *testing.T) {
	h := newHarness(t)
	var ids []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		tmpl, err := h.CreateTemplate(TemplateInput{Name: name})
		if err != nil {
			t.Fatal(err)
		}
		inst, err := h.AddToToday(tmpl.ID(), task.PromoteOptions{})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, inst.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Complete(id); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	s, err := h.Summary(monday)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Completed) != len(ids) || s.CompletionRate != 1 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestReopeningWithdrawsGoalCredit(t *testing.T) {
	h := newHarness(t)
	gym, _ := h.CreateTemplate(TemplateInput{Name: "Gym"})
	g, err := h.CreateGoal(GoalInput{Name: "Gym 2x", Target: gym.ID(), Period: goal.PeriodWeek, Frequency: 2, Window: true})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	inst, _ := h.AddToToday(gym.ID(), task.PromoteOptions{})

	tests := []struct {
		name      string
		toggle    func() error
		wantCount int
	}{
		{"complete", func() error { _, err := h.Complete(inst.ID); return err }, 1},
		{"uncomplete", func() error { _, err := h.Uncomplete(inst.ID); return err }, 0},
		{"complete again", func() error { _, err := h.Complete(inst.ID); return err }, 1},
		{"set completed twice", func() error { _, _, err := h.SetCompleted(inst.ID, true); return err }, 1},
		{"set open", func() error { _, _, err := h.SetCompleted(inst.ID, false); return err }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.toggle(); err != nil {
				t.Fatalf("toggle failed: %v", err)
			}
			status, err := h.ShowGoal(g.ID())
			if err != nil {
				t.Fatal(err)
			}
			if status.Progress != tt.wantCount || status.Achieved {
				t.Fatalf("status = progress %d achieved %v, want progress %d", status.Progress, status.Achieved, tt.wantCount)
			}
		})
	}
	if len(h.log.achieved) != 0 {
		t.Fatalf("toggling one instance must never achieve a 2x goal, got %d logs", len(h.log.achieved))
	}
}

func TestReopeningKeepsManualGoalEntries(t *testing.T) {
	h := newHarness(t)
	gym, _ := h.CreateTemplate(TemplateInput{Name: "Gym"})
	g, _ := h.CreateGoal(GoalInput{Name: "Gym 3x", Target: gym.ID(), Period: goal.PeriodWeek, Frequency: 3, Window: true})
	if _, err := h.RecordGoalCompletion(g.ID(), monday); err != nil {
		t.Fatalf("RecordGoalCompletion failed: %v", err)
	}
	inst, _ := h.AddToToday(gym.ID(), task.PromoteOptions{})
	h.Complete(inst.ID)
	h.Uncomplete(inst.ID)

	got := h.state(t).Goals[g.ID()]
	if len(got.CompletionDates) != 1 || len(got.Credits) != 0 {
		t.Fatalf("ledger = %v credits = %v, want only the manual entry", got.CompletionDates, got.Credits)
	}
}

func TestConcurrentSweepsAndCompletions(t *testing.T) {
	h := newHarness(t)
	h.CreateCategory("Work", "")
	gym, _ := h.CreateTemplate(TemplateInput{Name: "Gym", Category: "Work"})
	g, _ := h.CreateGoal(GoalInput{Name: "Gym", Target: gym.ID(), Period: goal.PeriodWeek, Frequency: 10, Window: true})

	var ids []string
	for i := 0; i < 4; i++ {
		h.clock.set(monday.AddDays(i))
		inst, err := h.AddToToday(gym.ID(), task.PromoteOptions{})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, inst.ID)
	}
	h.clock.set(monday.AddDays(4))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				if _, _, err := h.SetCompleted(id, i%2 == 0); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := h.RenameCategory("Work", "Office"); err != nil {
			t.Error(err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := h.PurgeInstancesBefore(monday, true); err != nil {
			t.Error(err)
		}
	}()
	wg.Wait()

	status, err := h.ShowGoal(g.ID())
	if err != nil {
		t.Fatal(err)
	}
	if status.Progress != len(ids) {
		t.Fatalf("progress = %d, want one credit per completed instance (%d)", status.Progress, len(ids))
	}
}
