package pgsql

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGoalRepository struct {
	BaseRepository
}

func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

const goalColumns = `goal_id, user_id, title, target_amount, saved_amount, deadline, description,
	completed, created_at, last_updated_at`

func toModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:       d.GoalID,
		UserID:       d.UserID,
		Title:        d.Title,
		TargetAmount: d.TargetAmount,
		SavedAmount:  d.SavedAmount,
		Deadline:     domain.TruncateDate(d.Deadline),
		Description:  d.Description,
		Completed:    d.Completed,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:       m.GoalID,
		UserID:       m.UserID,
		Title:        m.Title,
		TargetAmount: m.TargetAmount,
		SavedAmount:  m.SavedAmount,
		Deadline:     domain.TruncateDate(m.Deadline),
		Description:  m.Description,
		Completed:    m.Completed,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := toModelGoal(goal)
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GoalID, m.UserID, m.Title, m.TargetAmount, m.SavedAmount, m.Deadline, m.Description,
		m.Completed, m.CreatedAt, m.LastUpdatedAt,
	)
	return mapError(err, "failed to save goal %s", goal.GoalID)
}

func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, userID string, goalID string) (*domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND goal_id = $2;`, userID, goalID)
	if err != nil {
		return nil, mapError(err, "failed to find goal %s", goalID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Goal])
	if err != nil {
		return nil, mapError(err, "failed to find goal %s", goalID)
	}
	d := toDomainGoal(m)
	return &d, nil
}

// ListGoals returns goals in creation order; callers apply the requested sort.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at, goal_id;`, userID)
	if err != nil {
		return nil, mapError(err, "failed to query goals")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Goal])
	if err != nil {
		return nil, mapError(err, "failed to collect goal rows")
	}
	goals := make([]domain.Goal, len(ms))
	for i, m := range ms {
		goals[i] = toDomainGoal(m)
	}
	return goals, nil
}

func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	m := toModelGoal(goal)
	query := `
		UPDATE goals
		SET title = $3, target_amount = $4, saved_amount = $5, deadline = $6, description = $7,
			completed = $8, last_updated_at = $9
		WHERE user_id = $1 AND goal_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.UserID, m.GoalID, m.Title, m.TargetAmount, m.SavedAmount, m.Deadline, m.Description,
		m.Completed, m.LastUpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to update goal %s", goal.GoalID)
	}
	return expectOneRow(tag)
}

func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, userID string, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND goal_id = $2;`, userID, goalID)
	if err != nil {
		return mapError(err, "failed to delete goal %s", goalID)
	}
	return expectOneRow(tag)
}
