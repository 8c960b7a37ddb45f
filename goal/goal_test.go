package goal

import (
	"testing"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
)

var (
	mon     = day.MustParse("2024-03-04")
	wed     = day.MustParse("2024-03-06")
	sat     = day.MustParse("2024-03-09")
	sun     = day.MustParse("2024-03-10")
	nextMon = day.MustParse("2024-03-11")
)

func weekGoal(t *testing.T, frequency int) Goal {
	t.Helper()
	g, err := New(Options{
		Name:         "Gym 3x",
		BeginDate:    mon,
		DueDate:      sun,
		TargetTaskID: "gym",
		Period:       PeriodWeek,
		Frequency:    frequency,
	}, mon)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestWeeklyScenario(t *testing.T) {
	g := weekGoal(t, 3)
	for _, d := range []day.Date{mon, wed, sat, nextMon} {
		g.RecordCompletion(d)
	}

	if got := g.CurrentProgress(nextMon); got != 3 {
		t.Fatalf("CurrentProgress = %d, want 3", got)
	}
	if !g.IsAchieved(nextMon) {
		t.Fatal("expected goal to be achieved")
	}
	if len(g.CompletionDates) != 4 {
		t.Fatalf("ledger should keep out-of-range entries, got %d", len(g.CompletionDates))
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name string
		date day.Date
		want int
	}{
		{"on begin date", mon, 1},
		{"on due date", sun, 1},
		{"before begin date", mon.AddDays(-1), 0},
		{"after due date", nextMon, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := weekGoal(t, 1)
			g.RecordCompletion(tt.date)
			if got := g.CurrentProgress(sun); got != tt.want {
				t.Errorf("CurrentProgress = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDuplicateDatesBothCount(t *testing.T) {
	g := weekGoal(t, 2)
	g.RecordCompletion(wed)
	g.RecordCompletion(wed)
	if got := g.CurrentProgress(sun); got != 2 {
		t.Fatalf("CurrentProgress = %d, want 2", got)
	}
}

func TestFrequencyZeroIsAlwaysAchieved(t *testing.T) {
	g := weekGoal(t, 0)
	if !g.IsAchieved(mon) {
		t.Fatal("frequency 0 must be achieved with an empty ledger")
	}
	if g.Remaining(mon) != 0 {
		t.Fatalf("Remaining = %d, want 0", g.Remaining(mon))
	}
}

func TestOpenEnded(t *testing.T) {
	g, err := New(Options{
		Name:         "Read",
		BeginDate:    mon,
		TargetTaskID: "read",
		Period:       PeriodMonth,
		Frequency:    2,
	}, mon)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	far := day.MustParse("2025-01-01")
	g.RecordCompletion(mon.AddDays(-1))
	g.RecordCompletion(wed)
	g.RecordCompletion(far)

	if got := g.CurrentProgress(day.Date{}); got != 2 {
		t.Errorf("unbounded progress = %d, want 2", got)
	}
	if got := g.CurrentProgress(sun); got != 1 {
		t.Errorf("progress as of %s = %d, want 1", sun, got)
	}
	if !g.IsActive(far) {
		t.Error("open-ended goal is active on every later day")
	}
}

func TestReset(t *testing.T) {
	g := weekGoal(t, 1)
	g.RecordCompletion(wed)
	g.Reset()

	if g.CurrentProgress(sun) != 0 {
		t.Fatal("Reset must clear the ledger")
	}
	if !g.BeginDate.Equal(mon) || !g.DueDate.Equal(sun) || g.Frequency != 1 {
		t.Fatalf("Reset must not touch the range or frequency: %+v", g)
	}
}

func TestNewValidation(t *testing.T) {
	base := Options{Name: "Gym", BeginDate: mon, DueDate: sun, TargetTaskID: "gym", Period: PeriodWeek, Frequency: 1}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"blank name", func(o *Options) { o.Name = "  " }},
		{"due before begin", func(o *Options) { o.DueDate = mon.AddDays(-1) }},
		{"missing begin", func(o *Options) { o.BeginDate = day.Date{} }},
		{"missing target", func(o *Options) { o.TargetTaskID = "" }},
		{"unknown period", func(o *Options) { o.Period = "year" }},
		{"negative frequency", func(o *Options) { o.Frequency = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			if _, err := New(opts, mon); !errs.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestFilterByPeriodIgnoresRange(t *testing.T) {
	weekly := weekGoal(t, 1)
	monthly := weekGoal(t, 1)
	monthly.Period = PeriodMonth

	got := FilterByPeriod([]Goal{weekly, monthly}, PeriodMonth)
	if len(got) != 1 || got[0].ID() != monthly.ID() {
		t.Fatalf("FilterByPeriod(month) = %+v", got)
	}
	if len(FilterByPeriod(nil, PeriodWeek)) != 0 {
		t.Fatal("expected empty result for no goals")
	}
}

func TestDefaultWindow(t *testing.T) {
	tests := []struct {
		period    Period
		today     string
		wantBegin string
		wantEnd   string
	}{
		{PeriodWeek, "2024-03-06", "2024-03-04", "2024-03-10"},
		{PeriodWeek, "2024-03-10", "2024-03-04", "2024-03-10"},
		{PeriodWeek, "2024-03-04", "2024-03-04", "2024-03-10"},
		{PeriodMonth, "2024-02-14", "2024-02-01", "2024-02-29"},
		{PeriodMonth, "2024-12-31", "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(string(tt.period)+" "+tt.today, func(t *testing.T) {
			begin, end, err := DefaultWindow(tt.period, day.MustParse(tt.today))
			if err != nil {
				t.Fatalf("DefaultWindow failed: %v", err)
			}
			if begin.String() != tt.wantBegin || end.String() != tt.wantEnd {
				t.Errorf("window = [%s, %s], want [%s, %s]", begin, end, tt.wantBegin, tt.wantEnd)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod("Week"); err != nil || p != PeriodWeek {
		t.Fatalf("ParsePeriod(Week) = %q, %v", p, err)
	}
	if _, err := ParsePeriod("fortnight"); !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreditAndWithdraw(t *testing.T) {
	g := weekGoal(t, 2)
	g.RecordCompletion(wed)

	if !g.Credit("inst1", wed) {
		t.Fatal("first credit should record")
	}
	if g.Credit("inst1", sat) {
		t.Fatal("an instance is credited at most once")
	}
	if got := g.CurrentProgress(sun); got != 2 {
		t.Fatalf("CurrentProgress = %d, want 2", got)
	}

	if !g.Withdraw("inst1") {
		t.Fatal("withdrawing a credited instance should apply")
	}
	if g.Withdraw("inst1") || g.Withdraw("other") {
		t.Fatal("withdrawing an uncredited instance is a no-op")
	}
	if len(g.CompletionDates) != 1 || !g.CompletionDates[0].Equal(wed) {
		t.Fatalf("manual entry should survive, got %v", g.CompletionDates)
	}

	g.Credit("inst2", sat)
	g.Reset()
	if len(g.CompletionDates) != 0 || g.Withdraw("inst2") {
		t.Fatal("Reset should clear credits along with the ledger")
	}
}

func TestProgressOn(t *testing.T) {
	dated := weekGoal(t, 3)
	open := weekGoal(t, 3)
	open.DueDate = day.Date{}
	for _, d := range []day.Date{mon, wed, sat, nextMon} {
		dated.RecordCompletion(d)
		open.RecordCompletion(d)
	}

	tests := []struct {
		name string
		g    Goal
		on   day.Date
		want int
	}{
		{"dated on begin date", dated, mon, 1},
		{"dated midweek", dated, wed.AddDays(1), 2},
		{"dated past due date", dated, nextMon, 3},
		{"open-ended on saturday", open, sat, 3},
		{"open-ended next week", open, nextMon, 4},
		{"before begin date", dated, mon.AddDays(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.ProgressOn(tt.on); got != tt.want {
				t.Fatalf("ProgressOn(%s) = %d, want %d", tt.on, got, tt.want)
			}
		})
	}
	if got := dated.CurrentProgress(mon); got != 3 {
		t.Fatalf("CurrentProgress still counts through the due date, got %d", got)
	}
}
