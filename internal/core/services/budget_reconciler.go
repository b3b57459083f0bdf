package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

// budgetReconciler mirrors expense transactions into the (user, category, month) budgets.
// Each step is a single SQL statement; steps are not wrapped in a shared transaction.
type budgetReconciler struct {
	BaseService
	budgets portsrepo.BudgetSpendTracker
}

// NewBudgetReconciler creates the reconciler over the budget spend tracker.
func NewBudgetReconciler(budgets portsrepo.BudgetSpendTracker) portssvc.BudgetReconcilerSvc {
	return &budgetReconciler{budgets: budgets}
}

var _ portssvc.BudgetReconcilerSvc = (*budgetReconciler)(nil)

func (r *budgetReconciler) OnTransactionCreated(ctx context.Context, txn domain.Transaction) error {
	if !txn.IsExpense() {
		return nil
	}
	return r.add(ctx, txn)
}

// OnTransactionUpdated always runs both the reversal of previous and the application of current,
// even when nothing relevant changed.
func (r *budgetReconciler) OnTransactionUpdated(ctx context.Context, previous domain.Transaction, current domain.Transaction) error {
	var errs []error
	if previous.IsExpense() {
		if err := r.subtract(ctx, previous); err != nil {
			errs = append(errs, err)
		}
	}
	if current.IsExpense() {
		if err := r.add(ctx, current); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *budgetReconciler) OnTransactionDeleted(ctx context.Context, txn domain.Transaction) error {
	if !txn.IsExpense() {
		return nil
	}
	return r.subtract(ctx, txn)
}

func (r *budgetReconciler) add(ctx context.Context, txn domain.Transaction) error {
	key := txn.BudgetKey()
	budget, err := r.budgets.AddSpent(ctx, key, txn.Amount, r.Now())
	if err != nil {
		return fmt.Errorf("add %s to budget %s/%s: %w", txn.Amount, key.Category, key.Month, err)
	}
	r.LogDebug(ctx, "Budget spent amount increased",
		slog.String("budget_id", budget.BudgetID),
		slog.String("category", key.Category),
		slog.String("month", key.Month),
		slog.String("spent_amount", budget.SpentAmount.String()))
	return nil
}

// subtract treats a missing budget as nothing to undo.
func (r *budgetReconciler) subtract(ctx context.Context, txn domain.Transaction) error {
	key := txn.BudgetKey()
	budget, err := r.budgets.SubtractSpent(ctx, key, txn.Amount, r.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			r.LogDebug(ctx, "No budget to subtract from",
				slog.String("category", key.Category),
				slog.String("month", key.Month))
			return nil
		}
		return fmt.Errorf("subtract %s from budget %s/%s: %w", txn.Amount, key.Category, key.Month, err)
	}
	r.LogDebug(ctx, "Budget spent amount decreased",
		slog.String("budget_id", budget.BudgetID),
		slog.String("category", key.Category),
		slog.String("month", key.Month),
		slog.String("spent_amount", budget.SpentAmount.String()))
	return nil
}
