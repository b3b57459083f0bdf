package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/metrics"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Title        string           `json:"title" binding:"required"`
	TargetAmount decimal.Decimal  `json:"targetAmount"`
	SavedAmount  *decimal.Decimal `json:"savedAmount"`
	Deadline     string           `json:"deadline" binding:"required,datetime=2006-01-02"`
	Description  *string          `json:"description"`
}

// UpdateGoalRequest defines the goal fields that may be edited directly.
type UpdateGoalRequest struct {
	Title        *string          `json:"title"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Deadline     *string          `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Description  *string          `json:"description"`
}

// AddGoalProgressRequest adds money to a goal's saved amount.
type AddGoalProgressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ListGoalsParams defines query parameters for listing goals.
type ListGoalsParams struct {
	Sort string `form:"sort,default=progress" binding:"omitempty,oneof=progress deadline"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID        string          `json:"goalID"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	SavedAmount   decimal.Decimal `json:"savedAmount"`
	Deadline      string          `json:"deadline"`
	Description   *string         `json:"description,omitempty"`
	Completed     bool            `json:"completed"`
	Progress      decimal.Decimal `json:"progress"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToGoalResponse converts a domain.Goal to GoalResponse DTO
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		SavedAmount:   g.SavedAmount,
		Deadline:      g.Deadline.Format(domain.DateLayout),
		Description:   g.Description,
		Completed:     g.Completed,
		Progress:      metrics.GoalProgress(*g),
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ToListGoalResponse converts a slice of goals.
func ToListGoalResponse(goals []domain.Goal) []GoalResponse {
	res := make([]GoalResponse, len(goals))
	for i := range goals {
		res[i] = ToGoalResponse(&goals[i])
	}
	return res
}
