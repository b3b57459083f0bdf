package models

import "github.com/shopspring/decimal"

// Budget is a row of the budgets table. (user_id, category, month) is unique.
type Budget struct {
	BudgetID       string          `db:"budget_id"`
	UserID         string          `db:"user_id"`
	Category       string          `db:"category"`
	Month          string          `db:"month"`
	BudgetAmount   decimal.Decimal `db:"budget_amount"`
	SpentAmount    decimal.Decimal `db:"spent_amount"`
	Notes          *string         `db:"notes"`
	AlertThreshold int             `db:"alert_threshold"`
	AutoCreated    bool            `db:"auto_created"`
	AuditFields
}
