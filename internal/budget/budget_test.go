package budget

import (
	"testing"

	"github.com/julianstephens/lifeflow/internal/models"
)

func TestSummarize(t *testing.T) {
	txns := []models.Transaction{
		{Amount: 2000, Type: models.TransactionIncome, Category: models.ExpenseOther, Date: "2024-03-01"},
		{Amount: 150, Type: models.TransactionExpense, Category: models.ExpenseGroceries, Date: "2024-03-04"},
		{Amount: 80, Type: models.TransactionExpense, Category: models.ExpenseGroceries, Date: "2024-03-18"},
		{Amount: 900, Type: models.TransactionExpense, Category: models.ExpenseRent, Date: "2024-03-01"},
		{Amount: 40, Type: models.TransactionExpense, Category: models.ExpenseDining, Date: "2024-04-01"},
	}
	goals := []models.BudgetGoal{
		{Category: models.ExpenseGroceries, MonthlyLimit: 200, Month: "2024-03"},
		{Category: models.ExpenseHealth, MonthlyLimit: 50, Month: "2024-03"},
		{Category: models.ExpenseRent, MonthlyLimit: 1000, Month: "2024-02"},
	}

	s := Summarize("2024-03", txns, goals)

	if s.Income != 2000 {
		t.Errorf("Income = %v, want 2000", s.Income)
	}
	if s.Expenses != 1130 {
		t.Errorf("Expenses = %v, want 1130", s.Expenses)
	}
	if s.Balance() != 870 {
		t.Errorf("Balance() = %v, want 870", s.Balance())
	}
	if len(s.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %d: %+v", len(s.Categories), s.Categories)
	}
	if s.Categories[0].Category != models.ExpenseRent || s.Categories[0].HasGoal {
		t.Errorf("first category should be rent without a goal, got %+v", s.Categories[0])
	}
	if s.Categories[2].Category != models.ExpenseHealth || s.Categories[2].Spent != 0 {
		t.Errorf("health goal should appear with no spend, got %+v", s.Categories[2])
	}

	over := s.OverBudget()
	if len(over) != 1 || over[0].Category != models.ExpenseGroceries {
		t.Fatalf("expected groceries over budget, got %+v", over)
	}
	if over[0].Remaining() != -30 {
		t.Errorf("Remaining() = %v, want -30", over[0].Remaining())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("2024-03", nil, nil)
	if s.Income != 0 || s.Expenses != 0 || len(s.Categories) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month, start, end string
	}{
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2023-02", "2023-02-01", "2023-02-28"},
		{"2024-12", "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		start, end, err := MonthRange(tt.month)
		if err != nil {
			t.Fatalf("MonthRange(%q) failed: %v", tt.month, err)
		}
		if start != tt.start || end != tt.end {
			t.Errorf("MonthRange(%q) = (%s, %s), want (%s, %s)", tt.month, start, end, tt.start, tt.end)
		}
	}

	if _, _, err := MonthRange("March"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestMonthOf(t *testing.T) {
	if got := MonthOf("2024-03-15"); got != "2024-03" {
		t.Errorf("MonthOf() = %q", got)
	}
	if got := MonthOf("bad"); got != "" {
		t.Errorf("MonthOf(bad) = %q", got)
	}
}
