// Package boardtui implements `day board`, an interactive checklist of
// today's task instances.
package boardtui

import (
	"fmt"
	"strings"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/tracker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Board is the subset of the tracker the board drives.
type Board interface {
	Today() day.Date
	ListInstances(filter tracker.InstanceFilter) ([]task.Instance, error)
	SetCompleted(ref string, completed bool) (task.Instance, bool, error)
	Summary(d day.Date) (summary.DailySummary, error)
	CategoryIndex() (category.Index, error)
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type model struct {
	board       Board
	today       day.Date
	width       int
	height      int
	tasks       list.Model
	summary     summary.DailySummary
	status      string
	statusLevel statusLevel
}

type tasksLoadedMsg struct {
	tasks      []task.Instance
	categories category.Index
	summary    summary.DailySummary
	err        error
}

type taskToggledMsg struct {
	task    task.Instance
	changed bool
	err     error
}

// Run shows the board until the user quits.
func Run(board Board) error {
	if board == nil {
		return fmt.Errorf("board is required")
	}
	program := tea.NewProgram(newModel(board), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newModel(board Board) model {
	tasks := list.New(nil, newTaskItemDelegate(), 0, 0)
	tasks.SetShowTitle(false)
	tasks.SetShowStatusBar(false)
	tasks.SetFilteringEnabled(false)
	tasks.SetShowHelp(false)
	tasks.SetShowPagination(false)

	return model{board: board, today: board.Today(), tasks: tasks}
}

func (m model) Init() tea.Cmd {
	return m.loadTasksCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "x":
			return m, m.toggleCmd()
		case "r":
			m.setStatus("Reloading...", statusNone)
			return m, m.loadTasksCmd()
		}
	case tasksLoadedMsg:
		m.handleTasksLoaded(msg)
		return m, nil
	case taskToggledMsg:
		return m.handleTaskToggled(msg)
	}

	var cmd tea.Cmd
	m.tasks, cmd = m.tasks.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading board..."
	}
	header := titleStyle.Render("Today " + m.today.String())
	progress := valueMuted.Render(formatProgress(m.summary))
	spacerWidth := m.width - lipgloss.Width(header) - lipgloss.Width(progress)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	top := header + strings.Repeat(" ", spacerWidth) + progress

	body := m.tasks.View()
	if len(m.tasks.Items()) == 0 {
		body = valueMuted.Render("Nothing scheduled. Promote a template with `day today add`.")
	}
	pane := paneStyle.Width(max(m.width-2, 0)).Height(max(m.height-5, 1)).Render(body)

	help := helpStyle.Render(truncateText("Keys: up/down move | space toggle done | r reload | q quit", m.width))
	return strings.Join([]string{top, pane, help, m.renderStatusLine()}, "\n")
}

func (m *model) resize() {
	width := m.width - 6
	if width < 1 {
		width = 1
	}
	height := m.height - 7
	if height < 1 {
		height = 1
	}
	m.tasks.SetSize(width, height)
}

func (m *model) handleTasksLoaded(msg tasksLoadedMsg) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		return
	}
	selected := ""
	if current, ok := m.currentItem(); ok {
		selected = current.task.ID
	}

	ordered := append([]task.Instance(nil), msg.tasks...)
	task.SortForDisplay(ordered)
	items := make([]list.Item, 0, len(ordered))
	for _, inst := range ordered {
		items = append(items, newTaskItem(inst, msg.categories, m.today))
	}
	m.tasks.SetItems(items)
	m.summary = msg.summary

	for i, item := range items {
		if item.(taskItem).task.ID == selected {
			m.tasks.Select(i)
			return
		}
	}
	if len(items) > 0 && m.tasks.Index() >= len(items) {
		m.tasks.Select(0)
	}
}

func (m model) handleTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Update failed: %v", msg.err), statusError)
		return m, nil
	}
	state := "open"
	if msg.task.IsCompleted {
		state = "done"
	}
	m.setStatus(fmt.Sprintf("%s marked %s", msg.task.Info.Name, state), statusInfo)
	return m, m.loadTasksCmd()
}

func (m model) currentItem() (taskItem, bool) {
	item := m.tasks.SelectedItem()
	if item == nil {
		return taskItem{}, false
	}
	current, ok := item.(taskItem)
	return current, ok
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) renderStatusLine() string {
	if strings.TrimSpace(m.status) == "" {
		return ""
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}

func formatProgress(s summary.DailySummary) string {
	return fmt.Sprintf("%d/%d done (%.0f%%)", len(s.Completed), len(s.Scheduled), s.CompletionRate*100)
}

func (m model) loadTasksCmd() tea.Cmd {
	board, today := m.board, m.today
	return func() tea.Msg {
		tasks, err := board.ListInstances(tracker.InstanceFilter{Day: today})
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		categories, err := board.CategoryIndex()
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		s, err := board.Summary(today)
		return tasksLoadedMsg{tasks: tasks, categories: categories, summary: s, err: err}
	}
}

func (m model) toggleCmd() tea.Cmd {
	current, ok := m.currentItem()
	if !ok {
		return nil
	}
	board := m.board
	return func() tea.Msg {
		inst, changed, err := board.SetCompleted(current.task.ID, !current.task.IsCompleted)
		return taskToggledMsg{task: inst, changed: changed, err: err}
	}
}
