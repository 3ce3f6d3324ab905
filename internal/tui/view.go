package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeflow/internal/constants"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateHabits:    "Habits",
	constants.StateChores:    "Chores",
	constants.StateTasks:     "Tasks",
	constants.StateGroceries: "Groceries",
	constants.StateBudget:    "Budget",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StateChores:
		content = docStyle.Render(m.choresModel.View())
	case constants.StateTasks:
		content = docStyle.Render(m.taskList.View())
	case constants.StateGroceries:
		content = docStyle.Render(m.groceriesModel.View())
	case constants.StateBudget:
		content = docStyle.Render(m.budgetModel.View())
	case constants.StateAddHabit, constants.StateAddGrocery:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = lipgloss.Place(m.width, max(m.height-4, 0),
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if _, ok := tabTitles[active]; !ok {
		active = m.previousState
	}

	tabs := make([]string, 0, len(constants.Tabs))
	for _, s := range constants.Tabs {
		if s == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[s]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render("  " + m.status)
	}
	return statusStyle.Render("  " + m.status)
}
