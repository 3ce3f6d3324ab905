package tasklist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
)

type CompleteTaskMsg struct {
	ID string
}

type PostponeTaskMsg struct {
	ID string
}

type DeleteTaskMsg struct {
	ID    string
	Title string
}

type KeyMap struct {
	Complete key.Binding
	Postpone key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "complete"),
		),
		Postpone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "postpone a day"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Complete, k.Postpone, k.Delete}
}

var columns = []table.Column{
	{Title: "Priority", Width: 9},
	{Title: "Task", Width: 32},
	{Title: "Category", Width: 14},
	{Title: "Deadline", Width: 17},
	{Title: "Postponed", Width: 9},
}

type Model struct {
	table table.Model
	keys  KeyMap
	tasks []models.Task
	loc   *time.Location
}

func New(tasks []models.Task, loc *time.Location, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	m := Model{table: t, keys: DefaultKeyMap(), loc: loc}
	m.SetTasks(tasks)
	return m
}

func (m *Model) SetTasks(tasks []models.Task) {
	m.tasks = tasks
	rows := make([]table.Row, len(tasks))
	for i, t := range tasks {
		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.In(m.loc).Format(constants.DateTimeFormat)
		}
		postponed := ""
		if t.PostponeCount > 0 {
			postponed = fmt.Sprintf("%dx", t.PostponeCount)
		}
		rows[i] = table.Row{t.Priority.String(), t.Title, string(t.Category), deadline, postponed}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selected() (models.Task, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[c], true
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Complete):
			if t, ok := m.selected(); ok {
				return m, func() tea.Msg { return CompleteTaskMsg{ID: t.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Postpone):
			if t, ok := m.selected(); ok {
				return m, func() tea.Msg { return PostponeTaskMsg{ID: t.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.selected(); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{ID: t.ID, Title: t.Title} }
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.tasks) == 0 {
		return "\n  No open tasks.\n  Add one with 'lifeflow task add'."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
