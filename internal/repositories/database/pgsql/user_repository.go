package pgsql

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userSelect = `
SELECT user_id, email, name, password_hash, auth_provider, provider_user_id, created_at
FROM users
`

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Email:          d.Email,
		Name:           d.Name,
		PasswordHash:   d.PasswordHash,
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: d.ProviderUserID,
		CreatedAt:      d.CreatedAt,
	}
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Email:          m.Email,
		Name:           m.Name,
		PasswordHash:   m.PasswordHash,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID,
		CreatedAt:      m.CreatedAt,
	}
}

// getUser private func to get a user from the select query filters
func (r *PgxUserRepository) getUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, userSelect+filterQuery, args...)
	if err != nil {
		return nil, mapError(err, "failed to query user")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapError(err, "failed to collect user row")
	}
	d := toDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, "WHERE user_id = $1;", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "WHERE lower(email) = lower($1);", email)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.getUser(ctx, "WHERE auth_provider = $1 AND provider_user_id = $2;", string(provider), providerUserID)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
		INSERT INTO users (user_id, email, name, password_hash, auth_provider, provider_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Email, m.Name, m.PasswordHash, m.AuthProvider, m.ProviderUserID, m.CreatedAt,
	)
	return mapError(err, "failed to save user %s", user.UserID)
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE user_id = $1;`, userID, passwordHash)
	if err != nil {
		return mapError(err, "failed to update password for user %s", userID)
	}
	return expectOneRow(tag)
}
