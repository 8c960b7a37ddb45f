package tracker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestConsoleLoggerOutput(t *testing.T) {
	original := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(original)

	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf)

	tmpl, _ := task.NewTemplate("Study", "", "", true, monday)
	inst, _ := task.Promote(tmpl, monday, task.PromoteOptions{DueDate: monday.AddDays(1)})
	logger.Promoted(PromotedLog{Instance: inst})
	logger.TemplateRetired(TemplateRetiredLog{Template: tmpl})
	logger.CategoryCascade(CategoryCascadeLog{Action: "delete", Category: category.Category{Name: "Work"}, Affected: 1})
	logger.GoalAchieved(GoalAchievedLog{Goal: goal.Goal{Info: info.Info{Name: "Gym"}, Frequency: 3}, Progress: 3, On: day.MustParse("2024-03-06")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Scheduled: Study [" + inst.ID + "] (medium priority, begins 2024-03-04, due 2024-03-05)",
		"Retired one-time template: Study",
		"Category delete: Work (1 entity updated)",
		"Goal achieved: Gym (3/3 on 2024-03-06)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestNilConsoleLoggerIsSafe(t *testing.T) {
	var logger *ConsoleLogger
	logger.Promoted(PromotedLog{})
	logger.GoalAchieved(GoalAchievedLog{})
}
