package pgsql

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		BudgetRepo:      newPgxBudgetRepository(dbPool),
		GoalRepo:        newPgxGoalRepository(dbPool),
		ProfileRepo:     newPgxProfileRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		SessionRepo:     newPgxSessionRepository(dbPool),
	}
}
