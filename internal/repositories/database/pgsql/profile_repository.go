package pgsql

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProfileRepository struct {
	BaseRepository
}

func newPgxProfileRepository(pool *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

const profileSelect = `
SELECT profile_id, username, email, first_name, last_name, birth_date, avatar_url, created_date, last_updated_at
FROM profiles
`

func toDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		ProfileID:     m.ProfileID,
		Username:      m.Username,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		BirthDate:     m.BirthDate,
		AvatarURL:     m.AvatarURL,
		CreatedDate:   m.CreatedDate,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// getProfile runs profileSelect with the given filter and expects one row.
func (r *PgxProfileRepository) getProfile(ctx context.Context, filterQuery string, args ...any) (*domain.Profile, error) {
	rows, err := r.Pool.Query(ctx, profileSelect+filterQuery, args...)
	if err != nil {
		return nil, mapError(err, "failed to query profile")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Profile])
	if err != nil {
		return nil, mapError(err, "failed to collect profile row")
	}
	d := toDomainProfile(m)
	return &d, nil
}

func (r *PgxProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	return r.getProfile(ctx, "WHERE profile_id = $1;", profileID)
}

func (r *PgxProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getProfile(ctx, "WHERE lower(email) = lower($1) ORDER BY created_date LIMIT 1;", email)
}

func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		INSERT INTO profiles (profile_id, username, email, first_name, last_name, birth_date, avatar_url, created_date, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		profile.ProfileID, profile.Username, profile.Email, profile.FirstName, profile.LastName,
		profile.BirthDate, profile.AvatarURL, profile.CreatedDate, profile.LastUpdatedAt,
	)
	return mapError(err, "failed to save profile %s", profile.ProfileID)
}

func (r *PgxProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	query := `
		UPDATE profiles
		SET username = $2, first_name = $3, last_name = $4, birth_date = $5, avatar_url = $6, last_updated_at = $7
		WHERE profile_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		profile.ProfileID, profile.Username, profile.FirstName, profile.LastName,
		profile.BirthDate, profile.AvatarURL, profile.LastUpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to update profile %s", profile.ProfileID)
	}
	return expectOneRow(tag)
}
