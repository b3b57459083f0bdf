package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultAlertThreshold is the percentage of the budget at which users are warned.
const DefaultAlertThreshold = 80

// BudgetKey is the logical identity of a budget.
type BudgetKey struct {
	UserID   string
	Category string
	Month    string // YYYY-MM
}

// Budget caps spending for one category in one month.
type Budget struct {
	BudgetID       string          `json:"budgetID"`
	UserID         string          `json:"userID"`
	Category       string          `json:"category"`
	Month          string          `json:"month"`
	BudgetAmount   decimal.Decimal `json:"budgetAmount"`
	SpentAmount    decimal.Decimal `json:"spentAmount"`
	Notes          *string         `json:"notes,omitempty"`
	AlertThreshold int             `json:"alertThreshold"`
	AutoCreated    bool            `json:"autoCreated"`
	AuditFields
}

// Key returns the (user, category, month) identity of the budget.
func (b Budget) Key() BudgetKey {
	return BudgetKey{UserID: b.UserID, Category: b.Category, Month: b.Month}
}

// BudgetStatus summarises how close spending is to the budget.
type BudgetStatus string

const (
	BudgetOK        BudgetStatus = "ok"
	BudgetNearLimit BudgetStatus = "near_limit"
	BudgetOverspent BudgetStatus = "overspent"
)

// BudgetMergeResult is the outcome of a manual budget entry.
type BudgetMergeResult struct {
	Budget      Budget
	Merged      bool         // an existing budget absorbed the entry
	Transaction *Transaction // opening-spend expense, when one was recorded
}
