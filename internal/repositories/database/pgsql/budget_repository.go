package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, user_id, category, month, budget_amount, spent_amount, notes,
	alert_threshold, auto_created, created_at, last_updated_at`

func toModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:       d.BudgetID,
		UserID:         d.UserID,
		Category:       d.Category,
		Month:          d.Month,
		BudgetAmount:   d.BudgetAmount,
		SpentAmount:    d.SpentAmount,
		Notes:          d.Notes,
		AlertThreshold: d.AlertThreshold,
		AutoCreated:    d.AutoCreated,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:       m.BudgetID,
		UserID:         m.UserID,
		Category:       m.Category,
		Month:          m.Month,
		BudgetAmount:   m.BudgetAmount,
		SpentAmount:    m.SpentAmount,
		Notes:          m.Notes,
		AlertThreshold: m.AlertThreshold,
		AutoCreated:    m.AutoCreated,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// queryOneBudget runs a statement returning budgetColumns and expects exactly one row.
func queryOneBudget(ctx context.Context, q querier, action string, query string, args ...any) (*domain.Budget, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to %s", action)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, mapError(err, "failed to %s", action)
	}
	d := toDomainBudget(m)
	return &d, nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND budget_id = $2;`
	return queryOneBudget(ctx, r.Pool, "find budget "+budgetID, query, userID, budgetID)
}

func (r *PgxBudgetRepository) FindBudgetByKey(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND category = $2 AND month = $3;`
	return queryOneBudget(ctx, r.Pool, "find budget by key", query, key.UserID, key.Category, key.Month)
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string, month *string) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets
		WHERE user_id = $1 AND ($2::text IS NULL OR month = $2)
		ORDER BY month DESC, category;`
	rows, err := r.Pool.Query(ctx, query, userID, month)
	if err != nil {
		return nil, mapError(err, "failed to query budgets")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, mapError(err, "failed to collect budget rows")
	}
	budgets := make([]domain.Budget, len(ms))
	for i, m := range ms {
		budgets[i] = toDomainBudget(m)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := toModelBudget(budget)
	query := `
		UPDATE budgets
		SET budget_amount = $3, spent_amount = $4, notes = $5, alert_threshold = $6, last_updated_at = $7
		WHERE user_id = $1 AND budget_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.UserID, m.BudgetID, m.BudgetAmount, m.SpentAmount, m.Notes, m.AlertThreshold, m.LastUpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to update budget %s", budget.BudgetID)
	}
	return expectOneRow(tag)
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND budget_id = $2;`, userID, budgetID)
	if err != nil {
		return mapError(err, "failed to delete budget %s", budgetID)
	}
	return expectOneRow(tag)
}

// AddSpent is a single upsert so two concurrent first expenses cannot create duplicate budgets.
func (r *PgxBudgetRepository) AddSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, 0, $5, NULL, $6, TRUE, $7, $7)
		ON CONFLICT (user_id, category, month) DO UPDATE SET
			spent_amount = budgets.spent_amount + EXCLUDED.spent_amount,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + budgetColumns + `;
	`
	return queryOneBudget(ctx, r.Pool, "add spent amount", query,
		uuid.NewString(), key.UserID, key.Category, key.Month, amount, domain.DefaultAlertThreshold, now,
	)
}

func (r *PgxBudgetRepository) SubtractSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	query := `
		UPDATE budgets
		SET spent_amount = GREATEST(spent_amount - $4, 0), last_updated_at = $5
		WHERE user_id = $1 AND category = $2 AND month = $3
		RETURNING ` + budgetColumns + `;
	`
	return queryOneBudget(ctx, r.Pool, "subtract spent amount", query, key.UserID, key.Category, key.Month, amount, now)
}

func (r *PgxBudgetRepository) RecalculateSpent(ctx context.Context, key domain.BudgetKey, now time.Time) (*domain.Budget, error) {
	first, last, err := domain.MonthRange(key.Month)
	if err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var budgetID string
	err = tx.QueryRow(ctx,
		`SELECT budget_id FROM budgets WHERE user_id = $1 AND category = $2 AND month = $3 FOR UPDATE;`,
		key.UserID, key.Category, key.Month,
	).Scan(&budgetID)
	if err != nil {
		return nil, mapError(err, "failed to lock budget")
	}

	var spent decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND category = $2 AND txn_type = $3 AND txn_date BETWEEN $4 AND $5;`,
		key.UserID, key.Category, string(domain.Expense), first, last,
	).Scan(&spent)
	if err != nil {
		return nil, mapError(err, "failed to sum expenses")
	}

	query := `
		UPDATE budgets SET spent_amount = $2, last_updated_at = $3
		WHERE budget_id = $1
		RETURNING ` + budgetColumns + `;
	`
	budget, err := queryOneBudget(ctx, tx, "overwrite spent amount", query, budgetID, spent, now)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return budget, nil
}

// MergeBudget sums a manual entry into the keyed record. xmax is zero only on freshly inserted rows.
func (r *PgxBudgetRepository) MergeBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, bool, error) {
	m := toModelBudget(budget)
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10)
		ON CONFLICT (user_id, category, month) DO UPDATE SET
			budget_amount = budgets.budget_amount + EXCLUDED.budget_amount,
			spent_amount = budgets.spent_amount + EXCLUDED.spent_amount,
			notes = COALESCE(EXCLUDED.notes, budgets.notes),
			alert_threshold = EXCLUDED.alert_threshold,
			auto_created = FALSE,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + budgetColumns + `, (xmax = 0) AS inserted;
	`
	var merged models.Budget
	var inserted bool
	err := r.Pool.QueryRow(ctx, query,
		m.BudgetID, m.UserID, m.Category, m.Month, m.BudgetAmount, m.SpentAmount, m.Notes,
		m.AlertThreshold, m.CreatedAt, m.LastUpdatedAt,
	).Scan(
		&merged.BudgetID, &merged.UserID, &merged.Category, &merged.Month, &merged.BudgetAmount,
		&merged.SpentAmount, &merged.Notes, &merged.AlertThreshold, &merged.AutoCreated,
		&merged.CreatedAt, &merged.LastUpdatedAt, &inserted,
	)
	if err != nil {
		return nil, false, mapError(err, "failed to merge budget")
	}
	d := toDomainBudget(merged)
	return &d, inserted, nil
}
