package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a budget owned by userID.
	FindBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)

	// FindBudgetByKey retrieves the budget for a (user, category, month) key.
	FindBudgetByKey(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error)

	// ListBudgets lists a user's budgets, optionally restricted to one month.
	ListBudgets(ctx context.Context, userID string, month *string) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// UpdateBudget replaces the user-editable fields of a budget.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// DeleteBudget removes a budget owned by userID.
	DeleteBudget(ctx context.Context, userID string, budgetID string) error
}

// BudgetSpendTracker adjusts spent amounts in a single statement per call.
type BudgetSpendTracker interface {
	// AddSpent adds amount to the keyed budget's spent amount, creating an auto budget
	// (zero budget amount, default threshold) when none exists.
	AddSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error)

	// SubtractSpent subtracts amount from the keyed budget's spent amount, never going below zero.
	// Returns apperrors.ErrNotFound when the key has no budget.
	SubtractSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error)

	// RecalculateSpent overwrites the keyed budget's spent amount with the sum of its matching
	// expense transactions, inside one database transaction.
	RecalculateSpent(ctx context.Context, key domain.BudgetKey, now time.Time) (*domain.Budget, error)
}

// BudgetUpserter merges manually entered budgets into the keyed record.
type BudgetUpserter interface {
	// MergeBudget inserts budget, or sums its budget and spent amounts into the existing record
	// for the same key. created reports whether a new record was inserted.
	MergeBudget(ctx context.Context, budget domain.Budget) (merged *domain.Budget, created bool, err error)
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	BudgetSpendTracker
	BudgetUpserter
}
