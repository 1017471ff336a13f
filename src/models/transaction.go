package models

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// DefaultCategory is used when a transaction is created without a category.
const DefaultCategory = "Uncategorized"

// Transaction is a single cash movement recorded by a user.
type Transaction struct {
	ID          int64   `json:"id,omitempty"`
	UserID      int64   `json:"-"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // Always positive; Kind carries the sign
	Kind        string  `json:"type"`   // "income" or "expense"
	Category    string  `json:"category"`
	Date        Date    `json:"date"`
}

// SignedAmount returns the amount with expenses negated.
func (t Transaction) SignedAmount() float64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}
	return t.Amount
}

// DashboardSummary is the month-to-date overview shown on the dashboard.
type DashboardSummary struct {
	Balance        float64       `json:"balance"`
	MonthlyIncome  float64       `json:"monthly_income"`
	MonthlyExpense float64       `json:"monthly_expense"`
	MonthStart     Date          `json:"month_start"`
	Recent         []Transaction `json:"recent_transactions"`
}

// ReconciliationResult reports which recurring entries were created for the month.
type ReconciliationResult struct {
	Month          Date     `json:"month"`
	SalaryCredited bool     `json:"salary_credited"`
	SalaryAmount   float64  `json:"salary_amount,omitempty"`
	EMIsDebited    []string `json:"emis_debited"` // Loan names
}
