package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	Type     domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount   decimal.Decimal        `json:"amount"`
	Category string                 `json:"category" binding:"required"`
	Date     string                 `json:"date" binding:"required,datetime=2006-01-02"`
	Note     *string                `json:"note"`
}

// UpdateTransactionRequest defines the fields that may be edited.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	Type     *domain.TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	Amount   *decimal.Decimal        `json:"amount"`
	Category *string                 `json:"category"`
	Date     *string                 `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Note     *string                 `json:"note"`
}

// ListTransactionsParams defines query parameters for listing transactions.
// Month takes precedence over From/To.
type ListTransactionsParams struct {
	Type     string `form:"type" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	Month    string `form:"month" binding:"omitempty,month"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Category      string                 `json:"category"`
	Date          string                 `json:"date"`
	Note          *string                `json:"note,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Type:          t.Type,
		Amount:        t.Amount,
		Category:      t.Category,
		Date:          t.Date.Format(domain.DateLayout),
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToListTransactionsResponse converts a page of transactions.
func ToListTransactionsResponse(txns []domain.Transaction, total, limit, offset int) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, Total: total, Limit: limit, Offset: offset}
}
