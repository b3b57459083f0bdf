package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a row of the goals table.
type Goal struct {
	GoalID       string          `db:"goal_id"`
	UserID       string          `db:"user_id"`
	Title        string          `db:"title"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	SavedAmount  decimal.Decimal `db:"saved_amount"`
	Deadline     time.Time       `db:"deadline"`
	Description  *string         `db:"description"`
	Completed    bool            `db:"completed"`
	AuditFields
}
