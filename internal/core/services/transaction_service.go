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
	"github.com/shopspring/decimal"
)

// transactionService stores transactions and then reconciles budgets.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	reconciler      portssvc.BudgetReconcilerSvc
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionClock overrides the clock used for audit timestamps.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, reconciler portssvc.BudgetReconcilerSvc, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		transactionRepo: repo,
		reconciler:      reconciler,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	if !domain.IsValidCategory(req.Type, req.Category) {
		return nil, fmt.Errorf("%w: category %q is not valid for %s", apperrors.ErrValidation, req.Category, req.Type)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          req.Type,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		Note:          req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.logDrift(ctx, txn.UserID, s.reconciler.OnTransactionCreated(ctx, txn),
		slog.String("category", txn.Category),
		slog.String("month", txn.Month()),
		slog.String("delta", txn.Amount.String()))

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, int, error) {
	filter, err := toTransactionFilter(params)
	if err != nil {
		return nil, 0, err
	}
	txns, total, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, total, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	previous, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}

	current := *previous
	if req.Type != nil {
		current.Type = *req.Type
	}
	if req.Amount != nil {
		if err := requirePositive("amount", *req.Amount); err != nil {
			return nil, err
		}
		current.Amount = *req.Amount
	}
	if req.Category != nil {
		current.Category = *req.Category
	}
	if req.Date != nil {
		if current.Date, err = parseDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		current.Note = req.Note
	}
	if (req.Type != nil || req.Category != nil) && !domain.IsValidCategory(current.Type, current.Category) {
		return nil, fmt.Errorf("%w: category %q is not valid for %s", apperrors.ErrValidation, current.Category, current.Type)
	}
	current.LastUpdatedAt = s.Now()

	if err := s.transactionRepo.UpdateTransaction(ctx, current); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	s.logDrift(ctx, userID, s.reconciler.OnTransactionUpdated(ctx, *previous, current),
		slog.String("previous_category", previous.Category),
		slog.String("previous_month", previous.Month()),
		slog.String("category", current.Category),
		slog.String("month", current.Month()),
		slog.String("delta", current.Amount.Sub(previous.Amount).String()))

	return &current, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	if err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.logDrift(ctx, userID, s.reconciler.OnTransactionDeleted(ctx, *txn),
		slog.String("category", txn.Category),
		slog.String("month", txn.Month()),
		slog.String("delta", txn.Amount.Neg().String()))
	return nil
}

// logDrift records a failed budget step. The transaction write already succeeded and stands.
func (s *transactionService) logDrift(ctx context.Context, userID string, err error, attrs ...any) {
	if err == nil {
		return
	}
	s.LogError(ctx, err, "budget reconciliation drift", append([]any{slog.String("user_id", userID)}, attrs...)...)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return date, nil
}

// toTransactionFilter converts list parameters. A month overrides the from/to range.
func toTransactionFilter(params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{Limit: params.Limit, Offset: params.Offset}
	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		if !t.IsValid() {
			return filter, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, params.Type)
		}
		filter.Type = &t
	}
	if params.Category != "" {
		filter.Category = &params.Category
	}
	if params.Month != "" {
		first, last, err := domain.MonthRange(params.Month)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.From, filter.To = &first, &last
		return filter, nil
	}
	if params.From != "" {
		from, err := parseDate(params.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if params.To != "" {
		to, err := parseDate(params.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, fmt.Errorf("%w: 'to' must not be before 'from'", apperrors.ErrValidation)
	}
	return filter, nil
}

// requireNonNegative rejects negative amounts for the named field.
func requireNonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, field)
	}
	return requireAmountScale(field, amount)
}

// requirePositive rejects zero and negative amounts for the named field.
func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, field)
	}
	return requireAmountScale(field, amount)
}

func requireAmountScale(field string, amount decimal.Decimal) error {
	if !domain.FitsAmountScale(amount) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", apperrors.ErrValidation, field, domain.AmountScale)
	}
	return nil
}
