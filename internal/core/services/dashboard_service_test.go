package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dashboardTxn(t *testing.T, store *memoryTransactionStore, id string, typ domain.TransactionType, amount int64, category, day string) {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, day)
	require.NoError(t, err)
	require.NoError(t, store.SaveTransaction(context.Background(), domain.Transaction{
		TransactionID: id, UserID: "u1", Type: typ, Amount: decimal.NewFromInt(amount), Category: category, Date: d,
	}))
}

func TestDashboardService_MonthFiltersEverythingButMonthlySeries(t *testing.T) {
	ctx := context.Background()
	store := newMemoryTransactionStore()
	dashboardTxn(t, store, "t1", domain.Income, 3000, "Salary", "2024-01-01")
	dashboardTxn(t, store, "t2", domain.Expense, 500, "Food", "2024-01-10")
	dashboardTxn(t, store, "t3", domain.Expense, 200, "Bills", "2024-01-20")
	dashboardTxn(t, store, "t4", domain.Expense, 999, "Food", "2024-02-03")

	goals := new(MockGoalRepository)
	goals.On("ListGoals", mock.Anything, "u1").Return([]domain.Goal{
		{GoalID: "g1", UserID: "u1", TargetAmount: decimal.NewFromInt(100), SavedAmount: decimal.NewFromInt(150)},
	}, nil).Once()

	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	svc := services.NewDashboardService(store, goals, services.WithDashboardClock(func() time.Time { return now }))

	dash, err := svc.GetDashboard(ctx, "u1", "2024-01")
	require.NoError(t, err)

	assert.True(t, dash.Summary.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, dash.Summary.Expense.Equal(decimal.NewFromInt(700)))
	assert.True(t, dash.Summary.Net.Equal(decimal.NewFromInt(2300)))
	require.Len(t, dash.Balance, 3)
	assert.True(t, dash.Balance[2].Balance.Equal(decimal.NewFromInt(2300)))
	assert.Len(t, dash.Monthly, 2)

	require.Len(t, dash.Payments, 2)
	assert.Equal(t, "t2", dash.Payments[0].Transaction.TransactionID)
	assert.True(t, dash.Payments[0].Overdue)
	assert.Equal(t, "t3", dash.Payments[1].Transaction.TransactionID)
	assert.Equal(t, 5, dash.Payments[1].DiffDays)
	assert.True(t, dash.Payments[1].DueSoon)

	require.Len(t, dash.Goals, 1)
	assert.True(t, dash.Goals[0].Progress.Equal(decimal.NewFromInt(100)))
}

func TestDashboardService_SameDayBalanceFollowsCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryTransactionStore()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTransaction(ctx, domain.Transaction{
		TransactionID: "salary", UserID: "u1", Type: domain.Income, Amount: decimal.NewFromInt(1000),
		Category: "Salary", Date: day, AuditFields: domain.AuditFields{CreatedAt: morning},
	}))
	require.NoError(t, store.SaveTransaction(ctx, domain.Transaction{
		TransactionID: "lunch", UserID: "u1", Type: domain.Expense, Amount: decimal.NewFromInt(400),
		Category: "Food", Date: day, AuditFields: domain.AuditFields{CreatedAt: morning.Add(time.Hour)},
	}))

	listed, _, err := store.ListTransactions(ctx, "u1", domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "lunch", listed[0].TransactionID, "store returns newest first")

	goals := new(MockGoalRepository)
	goals.On("ListGoals", mock.Anything, "u1").Return([]domain.Goal{}, nil).Once()

	dash, err := services.NewDashboardService(store, goals).GetDashboard(ctx, "u1", "2024-03")
	require.NoError(t, err)

	require.Len(t, dash.Balance, 2)
	assert.True(t, dash.Balance[0].Balance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, dash.Balance[1].Balance.Equal(decimal.NewFromInt(600)))
}

func TestDashboardService_InvalidMonth(t *testing.T) {
	svc := services.NewDashboardService(newMemoryTransactionStore(), new(MockGoalRepository))
	_, err := svc.GetDashboard(context.Background(), "u1", "2024-13")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDashboardService_GoalLoadFailure(t *testing.T) {
	goals := new(MockGoalRepository)
	goals.On("ListGoals", mock.Anything, "u1").Return(nil, assert.AnError).Once()

	svc := services.NewDashboardService(newMemoryTransactionStore(), goals)
	_, err := svc.GetDashboard(context.Background(), "u1", "")
	assert.ErrorIs(t, err, assert.AnError)
}
