package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryBudgetStore is an in-memory BudgetSpendTracker with the same floor and upsert rules as the SQL one.
type memoryBudgetStore struct {
	mu      sync.Mutex
	budgets map[domain.BudgetKey]*domain.Budget
	failAdd error
}

func newMemoryBudgetStore() *memoryBudgetStore {
	return &memoryBudgetStore{budgets: make(map[domain.BudgetKey]*domain.Budget)}
}

var _ portsrepo.BudgetSpendTracker = (*memoryBudgetStore)(nil)

func (m *memoryBudgetStore) seed(key domain.BudgetKey, budgetAmount, spent int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[key] = &domain.Budget{
		BudgetID:       uuid.NewString(),
		UserID:         key.UserID,
		Category:       key.Category,
		Month:          key.Month,
		BudgetAmount:   decimal.NewFromInt(budgetAmount),
		SpentAmount:    decimal.NewFromInt(spent),
		AlertThreshold: domain.DefaultAlertThreshold,
	}
}

func (m *memoryBudgetStore) get(key domain.BudgetKey) (domain.Budget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[key]
	if !ok {
		return domain.Budget{}, false
	}
	return *b, true
}

func (m *memoryBudgetStore) AddSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdd != nil {
		return nil, m.failAdd
	}
	b, ok := m.budgets[key]
	if !ok {
		b = &domain.Budget{
			BudgetID:       uuid.NewString(),
			UserID:         key.UserID,
			Category:       key.Category,
			Month:          key.Month,
			BudgetAmount:   decimal.Zero,
			SpentAmount:    decimal.Zero,
			AlertThreshold: domain.DefaultAlertThreshold,
			AutoCreated:    true,
		}
		m.budgets[key] = b
	}
	b.SpentAmount = b.SpentAmount.Add(amount)
	b.LastUpdatedAt = now
	out := *b
	return &out, nil
}

func (m *memoryBudgetStore) SubtractSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	b.SpentAmount = decimal.Max(b.SpentAmount.Sub(amount), decimal.Zero)
	b.LastUpdatedAt = now
	out := *b
	return &out, nil
}

func (m *memoryBudgetStore) RecalculateSpent(ctx context.Context, key domain.BudgetKey, now time.Time) (*domain.Budget, error) {
	return nil, apperrors.ErrNotFound
}

// memoryTransactionStore is an in-memory TransactionRepositoryFacade.
type memoryTransactionStore struct {
	mu   sync.Mutex
	txns map[string]domain.Transaction
}

func newMemoryTransactionStore() *memoryTransactionStore {
	return &memoryTransactionStore{txns: make(map[string]domain.Transaction)}
}

var _ portsrepo.TransactionRepositoryFacade = (*memoryTransactionStore)(nil)

func (m *memoryTransactionStore) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[transactionID]
	if !ok || t.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (m *memoryTransactionStore) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range m.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	// ORDER BY txn_date DESC, created_at DESC
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, len(out), nil
}

func (m *memoryTransactionStore) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.TransactionID] = txn
	return nil
}

func (m *memoryTransactionStore) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.TransactionID]; !ok {
		return apperrors.ErrNotFound
	}
	m.txns[txn.TransactionID] = txn
	return nil
}

func (m *memoryTransactionStore) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.txns[transactionID]; !ok || t.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(m.txns, transactionID)
	return nil
}

// expenseSum is the ledger-side truth a budget must match.
func (m *memoryTransactionStore) expenseSum(key domain.BudgetKey) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, t := range m.txns {
		if t.IsExpense() && t.BudgetKey() == key {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
