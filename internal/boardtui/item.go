package boardtui

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/task"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type taskItem struct {
	task     task.Instance
	category string
	overdue  bool
}

func (item taskItem) FilterValue() string {
	return item.task.Info.Name
}

func newTaskItem(inst task.Instance, categories category.Index, today day.Date) taskItem {
	return taskItem{
		task:     inst,
		category: categories.Name(inst.Info.CategoryID),
		overdue:  inst.IsOverdue(today),
	}
}

type taskItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	doneStyle     lipgloss.Style
}

func newTaskItemDelegate() taskItemDelegate {
	return taskItemDelegate{
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
		doneStyle:     valueMuted,
	}
}

func (d taskItemDelegate) Height() int                             { return 1 }
func (d taskItemDelegate) Spacing() int                            { return 0 }
func (d taskItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(taskItem)
	if !ok {
		return
	}

	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	} else if item.task.IsCompleted {
		style = d.doneStyle
	}
	line := style.Render(formatTaskItem(item, m.Width()-2))
	if item.overdue {
		line = overdueMark.Render("!") + " " + line
	} else {
		line = "  " + line
	}
	fmt.Fprint(w, line)
}

func formatTaskItem(item taskItem, width int) string {
	check := "[ ]"
	if item.task.IsCompleted {
		check = "[x]"
	}
	parts := []string{check, item.task.Info.Name, string(item.task.Priority)}
	if item.category != "" {
		parts = append(parts, item.category)
	}
	if item.task.HasDueDate() {
		parts = append(parts, "due "+item.task.DueDate.String())
	}
	return truncateText(strings.Join(parts, "  "), width)
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}
