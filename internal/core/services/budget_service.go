package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/google/uuid"
)

// OpeningSpendNote marks the expense recorded for a budget entered with money already spent.
const OpeningSpendNote = "Opening spend for budget"

type budgetService struct {
	BaseService
	budgetRepo      portsrepo.BudgetRepositoryFacade
	transactionRepo portsrepo.TransactionWriter
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

// WithBudgetClock overrides the clock used for audit timestamps.
func WithBudgetClock(clock func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.Clock = clock
	}
}

// NewBudgetService creates a new budget service. Opening-spend transactions are written through
// transactionRepo directly so they are not reconciled a second time.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, transactionRepo portsrepo.TransactionWriter, options ...BudgetServiceOption) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.BudgetMergeResult, error) {
	if err := requireNonNegative("budgetAmount", req.BudgetAmount); err != nil {
		return nil, err
	}
	if err := requireNonNegative("spentAmount", req.SpentAmount); err != nil {
		return nil, err
	}
	monthStart, err := domain.ParseMonth(req.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	threshold := domain.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}

	now := s.Now()
	entry := domain.Budget{
		BudgetID:       uuid.NewString(),
		UserID:         userID,
		Category:       req.Category,
		Month:          req.Month,
		BudgetAmount:   req.BudgetAmount,
		SpentAmount:    req.SpentAmount,
		Notes:          req.Notes,
		AlertThreshold: threshold,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	merged, created, err := s.budgetRepo.MergeBudget(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to merge budget",
			slog.String("category", req.Category),
			slog.String("month", req.Month))
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	result := &domain.BudgetMergeResult{Budget: *merged, Merged: !created}

	if req.SpentAmount.IsZero() {
		return result, nil
	}

	note := OpeningSpendNote
	opening := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.Expense,
		Amount:        req.SpentAmount,
		Category:      req.Category,
		Date:          monthStart,
		Note:          &note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.transactionRepo.SaveTransaction(ctx, opening); err != nil {
		// The budget already carries the spent amount; only the ledger entry is missing.
		s.LogError(ctx, err, "budget reconciliation drift",
			slog.String("user_id", userID),
			slog.String("category", req.Category),
			slog.String("month", req.Month),
			slog.String("delta", req.SpentAmount.String()))
		return result, nil
	}
	result.Transaction = &opening
	return result, nil
}

func (s *budgetService) GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget %s: %w", budgetID, err)
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID string, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	var month *string
	if params.Month != "" {
		month = &params.Month
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget %s: %w", budgetID, err)
	}

	if req.BudgetAmount != nil {
		if err := requireNonNegative("budgetAmount", *req.BudgetAmount); err != nil {
			return nil, err
		}
		budget.BudgetAmount = *req.BudgetAmount
	}
	if req.SpentAmount != nil {
		if err := requireNonNegative("spentAmount", *req.SpentAmount); err != nil {
			return nil, err
		}
		budget.SpentAmount = *req.SpentAmount
	}
	if req.Notes != nil {
		budget.Notes = req.Notes
	}
	if req.AlertThreshold != nil {
		budget.AlertThreshold = *req.AlertThreshold
	}
	budget.LastUpdatedAt = s.Now()

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	if err := s.budgetRepo.DeleteBudget(ctx, userID, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	return nil
}

func (s *budgetService) ReconcileBudget(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget %s: %w", budgetID, err)
	}
	reconciled, err := s.budgetRepo.RecalculateSpent(ctx, budget.Key(), s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to reconcile budget", slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to reconcile budget: %w", err)
	}
	if !reconciled.SpentAmount.Equal(budget.SpentAmount) {
		s.LogWarn(ctx, "Budget spent amount corrected",
			slog.String("budget_id", budgetID),
			slog.String("previous", budget.SpentAmount.String()),
			slog.String("reconciled", reconciled.SpentAmount.String()))
	}
	return reconciled, nil
}
