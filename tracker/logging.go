package tracker

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
	"github.com/charmbracelet/lipgloss"
)

// Logger receives events from successful use cases.
type Logger interface {
	Promoted(PromotedLog)
	TemplateRetired(TemplateRetiredLog)
	CategoryCascade(CategoryCascadeLog)
	GoalAchieved(GoalAchievedLog)
}

// PromotedLog describes a template promoted to a day.
type PromotedLog struct {
	Instance task.Instance
}

// TemplateRetiredLog describes a one-time template leaving the pool.
type TemplateRetiredLog struct {
	Template task.Template
}

// CategoryCascadeLog describes a rename or delete and how many entities it
// touched.
type CategoryCascadeLog struct {
	Action   string
	Category category.Category
	Affected int
}

// GoalAchievedLog describes a goal crossing its frequency target.
type GoalAchievedLog struct {
	Goal     goal.Goal
	Progress int
	On       day.Date
}

type noopLogger struct{}

func (noopLogger) Promoted(PromotedLog)               {}
func (noopLogger) TemplateRetired(TemplateRetiredLog) {}
func (noopLogger) CategoryCascade(CategoryCascadeLog) {}
func (noopLogger) GoalAchieved(GoalAchievedLog)       {}

// ConsoleLogger writes one styled line per event.
type ConsoleLogger struct {
	writer      io.Writer
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
}

// NewConsoleLogger builds a styled logger for interactive output.
func NewConsoleLogger(writer io.Writer) *ConsoleLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleLogger{
		writer:      writer,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Promoted logs a promotion.
func (logger *ConsoleLogger) Promoted(entry PromotedLog) {
	if logger == nil {
		return
	}
	inst := entry.Instance
	detail := fmt.Sprintf("%s priority, begins %s", inst.Priority, inst.BeginDate)
	if inst.HasDueDate() {
		detail += fmt.Sprintf(", due %s", inst.DueDate)
	}
	logger.write("Scheduled:", fmt.Sprintf("%s [%s]", inst.Info.Name, inst.ID), detail)
}

// TemplateRetired logs the removal of a one-time template.
func (logger *ConsoleLogger) TemplateRetired(entry TemplateRetiredLog) {
	if logger == nil {
		return
	}
	logger.write("Retired one-time template:", entry.Template.Info.Name, "")
}

// CategoryCascade logs a category rename or delete.
func (logger *ConsoleLogger) CategoryCascade(entry CategoryCascadeLog) {
	if logger == nil {
		return
	}
	label := fmt.Sprintf("Category %s:", entry.Action)
	logger.write(label, entry.Category.Name, fmt.Sprintf("%d %s updated", entry.Affected, plural(entry.Affected, "entity", "entities")))
}

// GoalAchieved logs a goal reaching its target.
func (logger *ConsoleLogger) GoalAchieved(entry GoalAchievedLog) {
	if logger == nil {
		return
	}
	detail := fmt.Sprintf("%d/%d on %s", entry.Progress, entry.Goal.Frequency, entry.On)
	logger.write("Goal achieved:", entry.Goal.Info.Name, detail)
}

func (logger *ConsoleLogger) write(label, subject, detail string) {
	parts := []string{logger.headerStyle.Render(label), subject}
	if strings.TrimSpace(detail) != "" {
		parts = append(parts, logger.mutedStyle.Render("("+detail+")"))
	}
	fmt.Fprintln(logger.writer, strings.Join(parts, " "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
