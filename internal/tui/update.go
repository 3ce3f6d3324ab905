package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
	budgetview "github.com/julianstephens/lifeflow/internal/tui/components/budget"
	"github.com/julianstephens/lifeflow/internal/tui/components/chores"
	"github.com/julianstephens/lifeflow/internal/tui/components/groceries"
	"github.com/julianstephens/lifeflow/internal/tui/components/habits"
	"github.com/julianstephens/lifeflow/internal/tui/components/tasklist"
	"github.com/julianstephens/lifeflow/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}

	switch m.state {
	case constants.StateAddHabit, constants.StateAddGrocery, constants.StateConfirmDelete:
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Frequency: models.FrequencyDaily,
			Reminder:  m.settings.DefaultHabitReminder,
		}
		return m.openForm(newHabitForm(m.habitForm), constants.StateAddHabit)

	case habits.MarkHabitMsg:
		result, err := m.tracker.Habits.MarkDone(msg.ID, m.today())
		if err == nil {
			if result.Applied {
				m.setStatus(fmt.Sprintf("✓ %s done. 🔥 %d day streak", result.Habit.Name, result.Habit.CurrentStreak))
			} else {
				m.setStatus(fmt.Sprintf("%s was already done today. 🔥 %d day streak", result.Habit.Name, result.Habit.CurrentStreak))
			}
			err = m.refreshHabits()
		}
		m.report(err)
		return m, nil

	case habits.DeleteHabitMsg:
		t, id := m.tracker, msg.ID
		return m.confirm(fmt.Sprintf("Delete habit %q and its history?", msg.Name), func() error {
			return t.Habits.Delete(id)
		})

	case chores.MarkChoreMsg:
		updated, err := m.tracker.Chores.MarkDone(msg.ID, m.today())
		if err == nil {
			m.setStatus(fmt.Sprintf("✓ %s done. Next due %s", updated.Name, updated.NextDueDate))
			err = m.refreshChores()
		}
		m.report(err)
		return m, nil

	case chores.DeleteChoreMsg:
		t, id := m.tracker, msg.ID
		return m.confirm(fmt.Sprintf("Delete chore %q?", msg.Name), func() error {
			return t.Chores.Delete(id)
		})

	case tasklist.CompleteTaskMsg:
		task, err := m.tracker.Tasks.Complete(msg.ID, m.clock())
		if err == nil {
			m.setStatus("✓ Completed: " + task.Title)
			err = m.refreshTasks()
		}
		m.report(err)
		return m, nil

	case tasklist.PostponeTaskMsg:
		task, err := m.tracker.Tasks.Postpone(msg.ID, 1, m.clock())
		if err == nil {
			m.setStatus(fmt.Sprintf("Postponed %s (%dx)", task.Title, task.PostponeCount))
			err = m.refreshTasks()
		}
		m.report(err)
		return m, nil

	case tasklist.DeleteTaskMsg:
		t, id := m.tracker, msg.ID
		return m.confirm(fmt.Sprintf("Delete task %q?", msg.Title), func() error {
			return t.Tasks.Delete(id)
		})

	case groceries.AddItemMsg:
		m.groceryForm = &GroceryFormModel{}
		return m.openForm(newGroceryForm(m.groceryForm), constants.StateAddGrocery)

	case groceries.TogglePurchasedMsg:
		err := m.tracker.Groceries.SetPurchased(msg.ID, msg.Purchased)
		if err == nil {
			err = m.refreshGroceries()
		}
		m.report(err)
		return m, nil

	case groceries.ClearPurchasedMsg:
		n, err := m.tracker.Groceries.ClearPurchased()
		if err == nil {
			m.setStatus(fmt.Sprintf("Removed %d purchased item(s)", n))
			err = m.refreshGroceries()
		}
		m.report(err)
		return m, nil

	case groceries.DeleteItemMsg:
		t, id := m.tracker, msg.ID
		return m.confirm(fmt.Sprintf("Remove %q from the list?", msg.Name), func() error {
			return t.Groceries.Delete(id)
		})

	case budgetview.ShiftMonthMsg:
		month, err := shiftMonth(m.budgetModel.Month(), msg.Delta)
		if err == nil {
			err = m.refreshBudget(month)
		}
		m.report(err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			m.report(m.refreshAll())
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateChores:
		m.choresModel, cmd = m.choresModel.Update(msg)
	case constants.StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case constants.StateGroceries:
		m.groceriesModel, cmd = m.groceriesModel.Update(msg)
	case constants.StateBudget:
		m.budgetModel, cmd = m.budgetModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	n := len(constants.Tabs)
	i := slices.Index(constants.Tabs, m.state)
	m.state = constants.Tabs[((i+delta)%n+n)%n]
	m.status = ""
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	h, v := docStyle.GetFrameSize()
	// Tabs, status line and help take three rows.
	listHeight := height - 3 - v
	m.habitsModel.SetSize(width-h, listHeight)
	m.choresModel.SetSize(width-h, listHeight)
	m.taskList.SetSize(width-h, listHeight)
	m.groceriesModel.SetSize(width-h, listHeight)
	m.budgetModel.SetSize(width-h, listHeight)
}

func (m Model) openForm(form *huh.Form, state constants.SessionState) (tea.Model, tea.Cmd) {
	m.form = form
	m.previousState = m.state
	m.state = state
	m.status = ""
	return m, m.form.Init()
}

// confirm asks before running action. The action runs only on "Delete";
// every tab is refreshed afterwards.
func (m Model) confirm(prompt string, action func() error) (tea.Model, tea.Cmd) {
	m.confirmForm = &ConfirmFormModel{Prompt: prompt}
	m.pendingAction = action
	return m.openForm(newConfirmForm(m.confirmForm), constants.StateConfirmDelete)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.report(m.submitForm())
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) submitForm() error {
	switch m.state {
	case constants.StateAddHabit:
		weekdays, err := utils.ParseWeekdays(m.habitForm.Days)
		if err != nil {
			return err
		}
		habit, err := m.tracker.Habits.Create(tracker.NewHabit{
			Name:         m.habitForm.Name,
			Icon:         m.habitForm.Icon,
			Frequency:    m.habitForm.Frequency,
			Weekdays:     weekdays,
			ReminderTime: m.habitForm.Reminder,
		})
		if err != nil {
			return err
		}
		m.setStatus("Added habit: " + habit.Name)
		return m.refreshHabits()

	case constants.StateAddGrocery:
		item, err := m.tracker.Groceries.Add(m.groceryForm.Name, m.groceryForm.Quantity, m.groceryForm.Category)
		if err != nil {
			return err
		}
		m.setStatus("Added to list: " + item.Name)
		return m.refreshGroceries()

	case constants.StateConfirmDelete:
		if !m.confirmForm.Confirmed || m.pendingAction == nil {
			return nil
		}
		if err := m.pendingAction(); err != nil {
			return err
		}
		m.setStatus("Deleted.")
		return m.refreshAll()
	}
	return nil
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.habitForm = nil
	m.groceryForm = nil
	m.confirmForm = nil
	m.pendingAction = nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

// report shows err on the status line, if any.
func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
	}
}
