package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeflow/internal/tracker"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Status tracker.HabitStatus
}

func (i Item) Title() string {
	mark := "○"
	switch {
	case i.Status.Done:
		mark = "✓"
	case !i.Status.Scheduled:
		mark = "-"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Status.Habit.Icon, i.Status.Habit.Name)
}

func (i Item) Description() string {
	h := i.Status.Habit
	desc := fmt.Sprintf("🔥 %d day streak (best %d)", h.CurrentStreak, h.LongestStreak)
	switch {
	case i.Status.Done:
		desc += " · done today"
	case !i.Status.Scheduled:
		desc += " · rest day"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Status.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Mark   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
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
	return []key.Binding{k.Add, k.Mark, k.Delete}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(statuses []tracker.HabitStatus, width, height int) Model {
	l := list.New(items(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func items(statuses []tracker.HabitStatus) []list.Item {
	out := make([]list.Item, len(statuses))
	for i, s := range statuses {
		out[i] = Item{Status: s}
	}
	return out
}

func (m *Model) SetHabits(statuses []tracker.HabitStatus) {
	m.list.SetItems(items(statuses))
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Status.Scheduled && !i.Status.Done {
				return m, func() tea.Msg { return MarkHabitMsg{ID: i.Status.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Status.Habit.ID, Name: i.Status.Habit.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
