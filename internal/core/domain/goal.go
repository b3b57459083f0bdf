package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target with a deadline.
type Goal struct {
	GoalID       string          `json:"goalID"`
	UserID       string          `json:"userID"`
	Title        string          `json:"title"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	Deadline     time.Time       `json:"deadline"`
	Description  *string         `json:"description,omitempty"`
	Completed    bool            `json:"completed"`
	AuditFields
}

// RecomputeCompleted sets Completed from the saved and target amounts.
func (g *Goal) RecomputeCompleted() {
	g.Completed = g.SavedAmount.GreaterThanOrEqual(g.TargetAmount)
}

// GoalSort selects the ordering of a goal listing.
type GoalSort string

const (
	GoalSortProgress GoalSort = "progress"
	GoalSortDeadline GoalSort = "deadline"
)
