package chores

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/recurrence"
	"github.com/julianstephens/lifeflow/internal/reminder"
)

type MarkChoreMsg struct {
	ID string
}

type DeleteChoreMsg struct {
	ID   string
	Name string
}

type Item struct {
	Chore models.Chore
	Today time.Time
}

func (i Item) Title() string {
	mark := "○"
	if recurrence.IsOverdue(i.Chore, i.Today) {
		mark = "⚠"
	}
	return fmt.Sprintf("%s %s", mark, i.Chore.Name)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s · %s", reminder.RoomLabel(i.Chore.Room), i.Chore.Frequency, due(i.Chore, i.Today))
}

func (i Item) FilterValue() string { return i.Chore.Name }

func due(c models.Chore, today time.Time) string {
	n, ok := recurrence.DaysUntilDue(c, today)
	switch {
	case !ok:
		return "not scheduled"
	case n < 0:
		return fmt.Sprintf("overdue by %d day(s)", -n)
	case n == 0:
		return "due today"
	case n == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", n)
	}
}

type KeyMap struct {
	Mark   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Mark: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "mark done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Mark, k.Delete}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(chores []models.Chore, today time.Time, width, height int) Model {
	l := list.New(items(chores, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Chores"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func items(chores []models.Chore, today time.Time) []list.Item {
	out := make([]list.Item, len(chores))
	for i, c := range chores {
		out[i] = Item{Chore: c, Today: today}
	}
	return out
}

func (m *Model) SetChores(chores []models.Chore, today time.Time) {
	m.list.SetItems(items(chores, today))
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Mark):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return MarkChoreMsg{ID: i.Chore.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteChoreMsg{ID: i.Chore.ID, Name: i.Chore.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No chores yet.\n  Add one with 'lifeflow chore add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
