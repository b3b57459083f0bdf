package pgsql

import (
	"context"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, txn_type, amount, category, txn_date, note, created_at, last_updated_at`

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Category:      d.Category,
		TxnDate:       domain.TruncateDate(d.Date),
		Note:          d.Note,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Category:      m.Category,
		Date:          domain.TruncateDate(m.TxnDate),
		Note:          m.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.UserID, m.Type, m.Amount, m.Category, m.TxnDate, m.Note, m.CreatedAt, m.LastUpdatedAt,
	)
	return mapError(err, "failed to save transaction %s", txn.TransactionID)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND transaction_id = $2;`
	rows, err := r.Pool.Query(ctx, query, userID, transactionID)
	if err != nil {
		return nil, mapError(err, "failed to find transaction %s", transactionID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError(err, "failed to find transaction %s", transactionID)
	}
	d := toDomainTransaction(m)
	return &d, nil
}

// ListTransactions pages through a user's transactions, newest first. The total is
// computed with a window function so one round trip serves both the page and the count.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Type != nil {
		conditions = append(conditions, "txn_type = "+next(string(*filter.Type)))
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = "+next(*filter.Category))
	}
	if filter.From != nil {
		conditions = append(conditions, "txn_date >= "+next(domain.TruncateDate(*filter.From)))
	}
	if filter.To != nil {
		conditions = append(conditions, "txn_date <= "+next(domain.TruncateDate(*filter.To)))
	}

	where := strings.Join(conditions, " AND ")
	filterArgs := append([]any(nil), args...)

	query := `SELECT ` + transactionColumns + `, COUNT(*) OVER() AS total_count
		FROM transactions
		WHERE ` + where + `
		ORDER BY txn_date DESC, created_at DESC, transaction_id`
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err, "failed to query transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionWithTotal])
	if err != nil {
		return nil, 0, mapError(err, "failed to collect transaction rows")
	}

	total := 0
	txns := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		txns[i] = toDomainTransaction(m.Transaction)
		total = m.TotalCount
	}
	if len(ms) == 0 && filter.Offset > 0 {
		// The window total is only visible on returned rows.
		countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
		if err := r.Pool.QueryRow(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
			return nil, 0, mapError(err, "failed to count transactions")
		}
	}
	return txns, total, nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)
	query := `
		UPDATE transactions
		SET txn_type = $3, amount = $4, category = $5, txn_date = $6, note = $7, last_updated_at = $8
		WHERE user_id = $1 AND transaction_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.UserID, m.TransactionID, m.Type, m.Amount, m.Category, m.TxnDate, m.Note, m.LastUpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to update transaction %s", txn.TransactionID)
	}
	return expectOneRow(tag)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND transaction_id = $2;`, userID, transactionID)
	if err != nil {
		return mapError(err, "failed to delete transaction %s", transactionID)
	}
	return expectOneRow(tag)
}
