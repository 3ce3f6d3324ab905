// Package budget summarizes a month of transactions against spending goals.
package budget

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
)

// CategorySpend is the spend of one expense category within a month.
type CategorySpend struct {
	Category models.ExpenseCategory `json:"category" yaml:"category"`
	Spent    float64                `json:"spent" yaml:"spent"`
	Limit    float64                `json:"limit,omitempty" yaml:"limit,omitempty"`
	HasGoal  bool                   `json:"has_goal" yaml:"has_goal"`
}

// OverBudget reports whether spending exceeds a configured goal.
func (c CategorySpend) OverBudget() bool {
	return c.HasGoal && c.Spent > c.Limit
}

// Remaining is the amount left under the goal; negative when over.
func (c CategorySpend) Remaining() float64 {
	return c.Limit - c.Spent
}

type Summary struct {
	Month      string          `json:"month" yaml:"month"`
	Income     float64         `json:"income" yaml:"income"`
	Expenses   float64         `json:"expenses" yaml:"expenses"`
	Categories []CategorySpend `json:"categories" yaml:"categories"`
}

func (s Summary) Balance() float64 {
	return s.Income - s.Expenses
}

// OverBudget returns the categories whose spend exceeds their goal.
func (s Summary) OverBudget() []CategorySpend {
	var over []CategorySpend
	for _, c := range s.Categories {
		if c.OverBudget() {
			over = append(over, c)
		}
	}
	return over
}

// Summarize totals txns for month and matches expense categories against
// goals. Transactions and goals outside month are ignored. Categories are
// sorted by spend, largest first.
func Summarize(month string, txns []models.Transaction, goals []models.BudgetGoal) Summary {
	summary := Summary{Month: month}
	byCategory := make(map[models.ExpenseCategory]*CategorySpend)

	entry := func(c models.ExpenseCategory) *CategorySpend {
		if e, ok := byCategory[c]; ok {
			return e
		}
		e := &CategorySpend{Category: c}
		byCategory[c] = e
		return e
	}

	for _, t := range txns {
		if MonthOf(t.Date) != month {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			summary.Income += t.Amount
		case models.TransactionExpense:
			summary.Expenses += t.Amount
			entry(t.Category).Spent += t.Amount
		}
	}

	for _, g := range goals {
		if g.Month != month {
			continue
		}
		e := entry(g.Category)
		e.Limit = g.MonthlyLimit
		e.HasGoal = true
	}

	for _, e := range byCategory {
		summary.Categories = append(summary.Categories, *e)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Spent != b.Spent {
			return a.Spent > b.Spent
		}
		return a.Category < b.Category
	})

	return summary
}

// MonthOf returns the YYYY-MM prefix of a YYYY-MM-DD date.
func MonthOf(date string) string {
	if len(date) < len(constants.MonthFormat) {
		return ""
	}
	return date[:len(constants.MonthFormat)]
}

// MonthRange returns the first and last calendar day of a YYYY-MM month.
func MonthRange(month string) (string, string, error) {
	start, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month format: %s (expected YYYY-MM)", month)
	}
	end := start.AddDate(0, 1, -1)
	return start.Format(constants.DateFormat), end.Format(constants.DateFormat), nil
}
