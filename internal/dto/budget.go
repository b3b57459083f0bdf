package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/metrics"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest is a manually entered budget. An existing budget for the same
// category and month absorbs it.
type CreateBudgetRequest struct {
	Category       string          `json:"category" binding:"required"`
	Month          string          `json:"month" binding:"required,month"`
	BudgetAmount   decimal.Decimal `json:"budgetAmount"`
	SpentAmount    decimal.Decimal `json:"spentAmount"`
	Notes          *string         `json:"notes"`
	AlertThreshold *int            `json:"alertThreshold" binding:"omitempty,min=0,max=100"`
}

// UpdateBudgetRequest defines the fields of a budget that may be edited.
type UpdateBudgetRequest struct {
	BudgetAmount   *decimal.Decimal `json:"budgetAmount"`
	SpentAmount    *decimal.Decimal `json:"spentAmount"`
	Notes          *string          `json:"notes"`
	AlertThreshold *int             `json:"alertThreshold" binding:"omitempty,min=0,max=100"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	Month string `form:"month" binding:"omitempty,month"`
}

// BudgetResponse defines the data returned for a budget, including its usage.
type BudgetResponse struct {
	BudgetID       string              `json:"budgetID"`
	Category       string              `json:"category"`
	Month          string              `json:"month"`
	BudgetAmount   decimal.Decimal     `json:"budgetAmount"`
	SpentAmount    decimal.Decimal     `json:"spentAmount"`
	Notes          *string             `json:"notes,omitempty"`
	AlertThreshold int                 `json:"alertThreshold"`
	AutoCreated    bool                `json:"autoCreated"`
	Status         domain.BudgetStatus `json:"status"`
	Remaining      decimal.Decimal     `json:"remaining"`
	PercentUsed    decimal.Decimal     `json:"percentUsed"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastUpdatedAt  time.Time           `json:"lastUpdatedAt"`
}

// CreateBudgetResponse reports the merged budget and any opening-spend transaction.
type CreateBudgetResponse struct {
	Budget      BudgetResponse       `json:"budget"`
	Merged      bool                 `json:"merged"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	usage := metrics.BudgetUsage(*b)
	return BudgetResponse{
		BudgetID:       b.BudgetID,
		Category:       b.Category,
		Month:          b.Month,
		BudgetAmount:   b.BudgetAmount,
		SpentAmount:    b.SpentAmount,
		Notes:          b.Notes,
		AlertThreshold: b.AlertThreshold,
		AutoCreated:    b.AutoCreated,
		Status:         usage.Status,
		Remaining:      usage.Remaining,
		PercentUsed:    usage.PercentUsed,
		CreatedAt:      b.CreatedAt,
		LastUpdatedAt:  b.LastUpdatedAt,
	}
}

// ToListBudgetResponse converts a slice of budgets.
func ToListBudgetResponse(budgets []domain.Budget) []BudgetResponse {
	res := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = ToBudgetResponse(&budgets[i])
	}
	return res
}
