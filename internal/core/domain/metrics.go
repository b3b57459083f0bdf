package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeCategoryName is the synthetic category that carries total income in breakdowns.
const IncomeCategoryName = "Income"

// Summary holds income, expense and net totals.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategoryAmount is one slice of a category breakdown.
type CategoryAmount struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// BalancePoint is the running balance after a transaction.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthlyTotal aggregates income and expense for a month.
type MonthlyTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ClassifiedPayment is an expense with its due-date classification.
type ClassifiedPayment struct {
	Transaction Transaction `json:"transaction"`
	DiffDays    int         `json:"diffDays"`
	Overdue     bool        `json:"overdue"`
	DueSoon     bool        `json:"dueSoon"`
}

// GoalProgress pairs a goal with its clamped completion percentage.
type GoalProgress struct {
	Goal     Goal            `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
}

// BudgetUsage reports a budget's status against its alert threshold.
type BudgetUsage struct {
	Status      BudgetStatus    `json:"status"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
}

// Dashboard is everything the overview page derives from a user's data.
type Dashboard struct {
	Month     string              `json:"month,omitempty"`
	Summary   Summary             `json:"summary"`
	Breakdown []CategoryAmount    `json:"breakdown"`
	Balance   []BalancePoint      `json:"balance"`
	Monthly   []MonthlyTotal      `json:"monthly"`
	Payments  []ClassifiedPayment `json:"payments"`
	Goals     []GoalProgress      `json:"goals"`
}
