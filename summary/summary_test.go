package summary

import (
	"testing"
	"time"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/event"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/wellness"
)

var (
	today = day.MustParse("2024-03-04")
	noon  = today.Time().Add(12 * time.Hour)
)

func promote(t *testing.T, name, categoryID string) task.Instance {
	t.Helper()
	tmpl, err := task.NewTemplate(name, "", categoryID, false, today)
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	inst, err := task.Promote(tmpl, today, task.PromoteOptions{})
	if err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	return inst
}

func TestEmptySummaryRateIsZero(t *testing.T) {
	s := New(today)
	if s.Rate() != 0 || s.CompletionRate != 0 {
		t.Fatalf("empty summary rate = %v/%v, want 0", s.Rate(), s.CompletionRate)
	}
}

func TestScheduleAndComplete(t *testing.T) {
	s := New(today)
	study := promote(t, "Study", "w")
	gym := promote(t, "Gym", "")

	if !s.AddScheduledTask(study) || !s.AddScheduledTask(gym) {
		t.Fatal("first schedule should change the summary")
	}
	if s.AddScheduledTask(study) {
		t.Fatal("scheduling the same template twice must be deduplicated")
	}

	again := study
	again.ID = "other-instance"
	if s.AddScheduledTask(again) {
		t.Fatal("a second instance of one template is the same scheduled task")
	}
	if len(s.Scheduled) != 2 {
		t.Fatalf("Scheduled = %v", s.Scheduled)
	}

	if !s.MarkCompleted(study, "Work") {
		t.Fatal("expected MarkCompleted to apply")
	}
	if s.MarkCompleted(study, "Work") {
		t.Fatal("MarkCompleted must be idempotent")
	}
	if s.CompletionRate != 0.5 {
		t.Fatalf("CompletionRate = %v, want 0.5", s.CompletionRate)
	}
	if s.CategoryBreakdown["Work"] != 1 {
		t.Fatalf("CategoryBreakdown = %v", s.CategoryBreakdown)
	}

	s.MarkCompleted(gym, "")
	if s.CompletionRate != 1 {
		t.Fatalf("CompletionRate = %v, want 1", s.CompletionRate)
	}
	if len(s.CategoryBreakdown) != 1 {
		t.Fatalf("uncategorized completions must not appear in the breakdown: %v", s.CategoryBreakdown)
	}
}

func TestMarkCompletedRequiresScheduled(t *testing.T) {
	s := New(today)
	if s.MarkCompleted(promote(t, "Read", ""), "") {
		t.Fatal("unscheduled tasks cannot be completed")
	}
	if len(s.Completed) != 0 || s.Rate() != 0 {
		t.Fatalf("summary changed: %+v", s)
	}
}

func TestRateStaysInRange(t *testing.T) {
	s := New(today)
	var instances []task.Instance
	for _, name := range []string{"a", "b", "c", "d"} {
		inst := promote(t, name, "")
		instances = append(instances, inst)
		s.AddScheduledTask(inst)
	}
	for i, inst := range instances {
		s.MarkCompleted(inst, "")
		s.MarkCompleted(inst, "")
		if r := s.Rate(); r < 0 || r > 1 {
			t.Fatalf("rate out of range after %d completions: %v", i+1, r)
		}
	}
	if s.Rate() != 1 {
		t.Fatalf("Rate = %v, want 1", s.Rate())
	}
}

func TestRenameCategory(t *testing.T) {
	s := New(today)
	s.CategoryBreakdown["Work"] = 2
	s.CategoryBreakdown["Office"] = 1

	if !s.RenameCategory("Work", "Office") {
		t.Fatal("expected rename to apply")
	}
	if s.CategoryBreakdown["Office"] != 3 || len(s.CategoryBreakdown) != 1 {
		t.Fatalf("CategoryBreakdown = %v", s.CategoryBreakdown)
	}
	if s.RenameCategory("Missing", "Other") {
		t.Fatal("renaming an absent key is a no-op")
	}
}

func TestBuild(t *testing.T) {
	work := category.Category{ID: "w", Name: "Work"}
	study := promote(t, "Study", "w")
	_ = study.Complete(noon)
	read := promote(t, "Read", "")
	yesterday := promote(t, "Old", "")
	yesterday.BeginDate = today.AddDays(-1)

	s := Build(today, []task.Instance{study, read, yesterday}, category.NewIndex([]category.Category{work}))
	if len(s.Scheduled) != 2 || len(s.Completed) != 1 {
		t.Fatalf("Build = %+v", s)
	}
	if s.CategoryBreakdown["Work"] != 1 || s.CompletionRate != 0.5 {
		t.Fatalf("Build = %+v", s)
	}
}

func TestFold(t *testing.T) {
	s := New(today)
	study := promote(t, "Study", "")
	s.AddScheduledTask(study)

	late := promote(t, "Report", "")
	late.BeginDate = today.AddDays(-3)
	late.DueDate = today.AddDays(-1)

	active, err := goal.New(goal.Options{
		Name: "Study 2x", BeginDate: today, DueDate: today.AddDays(6),
		TargetTaskID: study.TemplateID, Period: goal.PeriodWeek, Frequency: 2,
	}, today)
	if err != nil {
		t.Fatal(err)
	}
	active.RecordCompletion(today)
	expired, err := goal.New(goal.Options{
		Name: "Old goal", BeginDate: today.AddDays(-30), DueDate: today.AddDays(-1),
		TargetTaskID: "x", Period: goal.PeriodMonth, Frequency: 1,
	}, today)
	if err != nil {
		t.Fatal(err)
	}

	concert, err := event.New(event.Options{Name: "Concert", Date: today}, today)
	if err != nil {
		t.Fatal(err)
	}
	entry, err := wellness.New(today, noon, wellness.Options{Mood: 8})
	if err != nil {
		t.Fatal(err)
	}

	snap := Fold(s, Sources{
		Instances: []task.Instance{study, late},
		Goals:     []goal.Goal{active, expired},
		Events:    []event.Event{concert},
		Entries:   []wellness.Entry{entry},
	})

	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != study.ID {
		t.Errorf("Tasks = %+v", snap.Tasks)
	}
	if snap.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", snap.Overdue)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].Progress != 1 || snap.Goals[0].Achieved {
		t.Errorf("Goals = %+v", snap.Goals)
	}
	if len(snap.Events) != 1 {
		t.Errorf("Events = %+v", snap.Events)
	}
	if snap.Wellness.Mood != 8 || snap.Wellness.Entries != 1 {
		t.Errorf("Wellness = %+v", snap.Wellness)
	}
	if !snap.Day().Equal(today) {
		t.Errorf("Day() = %s", snap.Day())
	}
}

func TestFoldCountsGoalProgressThroughTheDay(t *testing.T) {
	g, err := goal.New(goal.Options{
		Name: "Gym 3x", BeginDate: today, DueDate: today.AddDays(6),
		TargetTaskID: "gym", Period: goal.PeriodWeek, Frequency: 3,
	}, today)
	if err != nil {
		t.Fatal(err)
	}
	for _, offset := range []int{0, 2, 5} {
		g.RecordCompletion(today.AddDays(offset))
	}

	tests := []struct {
		name         string
		date         day.Date
		wantProgress int
		wantAchieved bool
	}{
		{"monday", today, 1, false},
		{"wednesday", today.AddDays(2), 2, false},
		{"friday", today.AddDays(4), 2, false},
		{"saturday", today.AddDays(5), 3, true},
		{"sunday", today.AddDays(6), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Fold(New(tt.date), Sources{Goals: []goal.Goal{g}})
			if len(snap.Goals) != 1 {
				t.Fatalf("Goals = %+v", snap.Goals)
			}
			got := snap.Goals[0]
			if got.Progress != tt.wantProgress || got.Achieved != tt.wantAchieved {
				t.Fatalf("progress = %d achieved = %v, want %d %v", got.Progress, got.Achieved, tt.wantProgress, tt.wantAchieved)
			}
		})
	}
}
