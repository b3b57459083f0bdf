package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// IncomeCategories lists the income source categories offered to users.
var IncomeCategories = []string{"Salary", "Business", "Investments", "Freelance", "Other Income"}

// ExpenseCategories lists the expense categories offered to users.
// "Other" is accepted as well since budgets have always used it.
var ExpenseCategories = []string{"Food", "Travel", "Bills", "Shopping", "Health", "Education", "Entertainment", "Other Expenses", "Other"}

// IsValidCategory reports whether category belongs to the list for the given type.
func IsValidCategory(t TransactionType, category string) bool {
	var list []string
	switch t {
	case Income:
		list = IncomeCategories
	case Expense:
		list = ExpenseCategories
	default:
		return false
	}
	for _, c := range list {
		if c == category {
			return true
		}
	}
	return false
}

// Transaction is a single income or expense record owned by one user.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"userID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"` // calendar date, UTC midnight
	Note          *string         `json:"note,omitempty"`
	AuditFields
}

// Month returns the budget month (YYYY-MM) of the transaction date.
func (t Transaction) Month() string {
	return MonthOf(t.Date)
}

// IsExpense reports whether the transaction counts towards budgets.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// BudgetKey returns the budget this transaction reconciles against.
func (t Transaction) BudgetKey() BudgetKey {
	return BudgetKey{UserID: t.UserID, Category: t.Category, Month: t.Month()}
}

// TransactionFilter narrows a transaction listing. Nil fields are not applied.
type TransactionFilter struct {
	Type     *TransactionType
	Category *string
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Limit    int
	Offset   int
}
