package tui

import (
	"time"

	"github.com/julianstephens/lifeflow/internal/budget"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/utils"
)

func emptySummary(now time.Time) budget.Summary {
	return budget.Summary{Month: now.Format(constants.MonthFormat)}
}

func (m *Model) refreshAll() error {
	for _, refresh := range []func() error{
		m.refreshHabits,
		m.refreshChores,
		m.refreshTasks,
		m.refreshGroceries,
		func() error { return m.refreshBudget(m.budgetModel.Month()) },
	} {
		if err := refresh(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) refreshHabits() error {
	statuses, err := m.tracker.Habits.Today(m.today())
	if err != nil {
		return err
	}
	m.habitsModel.SetHabits(statuses)
	return nil
}

func (m *Model) refreshChores() error {
	list, err := m.tracker.Chores.List(false)
	if err != nil {
		return err
	}
	m.choresModel.SetChores(list, m.today())
	return nil
}

func (m *Model) refreshTasks() error {
	active, err := m.tracker.Tasks.Active()
	if err != nil {
		return err
	}
	m.taskList.SetTasks(active)
	return nil
}

func (m *Model) refreshGroceries() error {
	items, err := m.tracker.Groceries.List(false)
	if err != nil {
		return err
	}
	m.groceriesModel.SetItems(items)
	return nil
}

func (m *Model) refreshBudget(month string) error {
	summary, err := m.tracker.Budget.Summary(month)
	if err != nil {
		return err
	}
	m.budgetModel.SetSummary(summary)
	return nil
}

// shiftMonth returns the YYYY-MM month delta months away from month.
func shiftMonth(month string, delta int) (string, error) {
	first, err := utils.ParseDate(month + "-01")
	if err != nil {
		return "", err
	}
	return utils.AddMonths(first, delta).Format(constants.MonthFormat), nil
}
