package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/metrics"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

type dashboardService struct {
	BaseService
	transactionRepo portsrepo.TransactionReader
	goalRepo        portsrepo.GoalReader
	classifier      metrics.PaymentClassifier
}

// DashboardServiceOption is a functional option for configuring the dashboard service
type DashboardServiceOption func(*dashboardService)

// WithPaymentClassifier replaces the default due-window classifier.
func WithPaymentClassifier(c metrics.PaymentClassifier) DashboardServiceOption {
	return func(s *dashboardService) {
		s.classifier = c
	}
}

// WithDashboardClock overrides the reference time used to classify payments.
func WithDashboardClock(clock func() time.Time) DashboardServiceOption {
	return func(s *dashboardService) {
		s.Clock = clock
	}
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(transactions portsrepo.TransactionReader, goals portsrepo.GoalReader, options ...DashboardServiceOption) portssvc.DashboardSvc {
	svc := &dashboardService{
		transactionRepo: transactions,
		goalRepo:        goals,
		classifier:      metrics.DueWindowClassifier{Days: metrics.DefaultDueSoonDays},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

// GetDashboard loads transactions and goals concurrently, then derives every figure in memory.
// The monthly series always covers all months; the other figures honour month.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string, month string) (*domain.Dashboard, error) {
	if month != "" {
		if _, err := domain.ParseMonth(month); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	var (
		txns  []domain.Transaction
		goals []domain.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, _, err = s.transactionRepo.ListTransactions(gctx, userID, domain.TransactionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goalRepo.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load dashboard data", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	inMonth := metrics.FilterByMonth(txns, month)
	return &domain.Dashboard{
		Month:     month,
		Summary:   metrics.Totals(inMonth, ""),
		Breakdown: metrics.CategoryBreakdown(inMonth, ""),
		Balance:   metrics.RunningBalance(inMonth, ""),
		Monthly:   metrics.MonthlyTotals(txns),
		Payments:  metrics.ClassifyPayments(inMonth, s.Now(), s.classifier),
		Goals:     metrics.GoalsProgress(goals),
	}, nil
}
