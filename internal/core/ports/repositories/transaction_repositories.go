package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
// Every lookup is scoped to the owning user.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction owned by userID.
	FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the page selected by filter and the total number of matches.
	// A zero filter.Limit returns every match.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction replaces the mutable fields of an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction owned by userID.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
