package models

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type ExpenseCategory string

const (
	ExpenseGroceries     ExpenseCategory = "groceries"
	ExpenseRent          ExpenseCategory = "rent"
	ExpenseUtilities     ExpenseCategory = "utilities"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseHealth        ExpenseCategory = "health"
	ExpenseDining        ExpenseCategory = "dining"
	ExpenseClothing      ExpenseCategory = "clothing"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseResearch      ExpenseCategory = "research"
	ExpenseOther         ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseGroceries, ExpenseRent, ExpenseUtilities, ExpenseTransport, ExpenseHealth,
	ExpenseDining, ExpenseClothing, ExpenseEntertainment, ExpenseResearch, ExpenseOther,
}

func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(normalizeEnum(s))
	for _, known := range ExpenseCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid expense category: %q", s)
}

type Transaction struct {
	ID        string          `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	Amount    float64         `json:"amount" yaml:"amount"`
	Type      TransactionType `json:"type" yaml:"type"`
	Category  ExpenseCategory `json:"category" yaml:"category"`
	Date      string          `json:"date" yaml:"date"` // YYYY-MM-DD format
	Note      string          `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// BudgetGoal is a monthly spending limit for one expense category.
type BudgetGoal struct {
	ID           string          `json:"id" yaml:"id"`
	Category     ExpenseCategory `json:"category" yaml:"category"`
	MonthlyLimit float64         `json:"monthly_limit" yaml:"monthly_limit"`
	Month        string          `json:"month" yaml:"month"` // YYYY-MM format
}
