package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// BudgetReaderSvc defines read operations for budgets
type BudgetReaderSvc interface {
	GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID string, params dto.ListBudgetsParams) ([]domain.Budget, error)
}

// BudgetWriterSvc defines write operations for budgets
type BudgetWriterSvc interface {
	// CreateBudget records a manual budget entry, merging into an existing budget for the same key.
	CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetMergeResult, error)
	UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID string, budgetID string) error
	// ReconcileBudget recomputes the spent amount from the transaction ledger.
	ReconcileBudget(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
}
