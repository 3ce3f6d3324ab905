package groceries

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeflow/internal/models"
)

type AddItemMsg struct{}

type TogglePurchasedMsg struct {
	ID        string
	Purchased bool
}

type ClearPurchasedMsg struct{}

type DeleteItemMsg struct {
	ID   string
	Name string
}

type Item struct {
	Grocery models.GroceryItem
}

func (i Item) Title() string {
	if i.Grocery.Purchased {
		return "✓ " + i.Grocery.Name
	}
	return "○ " + i.Grocery.Name
}

func (i Item) Description() string {
	desc := i.Grocery.Category
	if i.Grocery.Quantity != "" {
		desc = i.Grocery.Quantity + " · " + desc
	}
	if i.Grocery.Purchased {
		desc += " · in the basket"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Grocery.Name }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "toggle bought"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear bought"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Clear, k.Delete}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(groceries []models.GroceryItem, width, height int) Model {
	l := list.New(items(groceries), list.NewDefaultDelegate(), width, height)
	l.Title = "Groceries"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func items(groceries []models.GroceryItem) []list.Item {
	out := make([]list.Item, len(groceries))
	for i, g := range groceries {
		out[i] = Item{Grocery: g}
	}
	return out
}

func (m *Model) SetItems(groceries []models.GroceryItem) {
	m.list.SetItems(items(groceries))
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddItemMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return TogglePurchasedMsg{ID: i.Grocery.ID, Purchased: !i.Grocery.Purchased}
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			return m, func() tea.Msg { return ClearPurchasedMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteItemMsg{ID: i.Grocery.ID, Name: i.Grocery.Name} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Shopping list is empty.\n  Press 'a' to add an item."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
