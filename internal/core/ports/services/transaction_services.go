package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction owned by userID.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a filtered page of transactions and the total match count.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, int, error)
}

// TransactionWriterSvc defines write operations for transactions. Each write reconciles budgets
// after the transaction itself is stored.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// BudgetReconcilerSvc keeps budget spent amounts in step with expense transactions.
type BudgetReconcilerSvc interface {
	OnTransactionCreated(ctx context.Context, txn domain.Transaction) error
	OnTransactionUpdated(ctx context.Context, previous domain.Transaction, current domain.Transaction) error
	OnTransactionDeleted(ctx context.Context, txn domain.Transaction) error
}
