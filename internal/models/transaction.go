package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Type          string          `db:"txn_type"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
	TxnDate       time.Time       `db:"txn_date"`
	Note          *string         `db:"note"`
	AuditFields
}

// TransactionWithTotal carries the window-function total used for paging.
type TransactionWithTotal struct {
	Transaction
	TotalCount int `db:"total_count"`
}
