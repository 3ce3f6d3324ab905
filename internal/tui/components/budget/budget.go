package budget

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeflow/internal/budget"
)

// ShiftMonthMsg asks for the summary Delta months away from the shown one.
type ShiftMonthMsg struct {
	Delta int
}

type KeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth}
}

var (
	columns = []table.Column{
		{Title: "Category", Width: 16},
		{Title: "Spent", Width: 12},
		{Title: "Goal", Width: 12},
		{Title: "Left", Width: 12},
	}

	overStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	balanceStyle = lipgloss.NewStyle().Bold(true)
)

type Model struct {
	table    table.Model
	keys     KeyMap
	summary  budget.Summary
	currency string
}

func New(summary budget.Summary, currency string, width, height int) Model {
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
	t.SetStyles(s)

	m := Model{table: t, keys: DefaultKeyMap(), currency: currency}
	m.SetSummary(summary)
	return m
}

func (m *Model) SetSummary(s budget.Summary) {
	m.summary = s
	rows := make([]table.Row, len(s.Categories))
	for i, c := range s.Categories {
		goal, left := "", ""
		if c.HasGoal {
			goal = m.money(c.Limit)
			left = m.money(c.Remaining())
			if c.OverBudget() {
				left = "over " + m.money(-c.Remaining())
			}
		}
		rows[i] = table.Row{string(c.Category), m.money(c.Spent), goal, left}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m Model) Month() string {
	return m.summary.Month
}

func (m Model) money(v float64) string {
	return fmt.Sprintf("%s%.2f", m.currency, v)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.PrevMonth):
			return m, func() tea.Msg { return ShiftMonthMsg{Delta: -1} }
		case key.Matches(msg, m.keys.NextMonth):
			return m, func() tea.Msg { return ShiftMonthMsg{Delta: 1} }
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := fmt.Sprintf("%s   income %s   expenses %s   ",
		m.summary.Month, m.money(m.summary.Income), m.money(m.summary.Expenses))
	balance := balanceStyle.Render("balance " + m.money(m.summary.Balance()))
	if m.summary.Balance() < 0 {
		balance = overStyle.Render("balance " + m.money(m.summary.Balance()))
	}

	body := m.table.View()
	if len(m.summary.Categories) == 0 {
		body = "\n  No spending recorded this month."
	}

	var warnings string
	for _, c := range m.summary.Categories {
		if c.OverBudget() {
			warnings += "\n" + overStyle.Render(fmt.Sprintf("⚠ %s is over budget by %s", c.Category, m.money(-c.Remaining())))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header+balance, "", body, warnings)
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	// Leave room for the totals line and warnings.
	m.table.SetHeight(max(height-4, 3))
}
