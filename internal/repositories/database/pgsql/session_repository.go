package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	query := `
		INSERT INTO sessions (session_id, user_id, created_at, expires_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		session.SessionID, session.UserID, session.CreatedAt, session.ExpiresAt, session.LastActivityAt,
	)
	return mapError(err, "failed to save session")
}

func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, created_at, expires_at, last_activity_at, revoked_at
		FROM sessions WHERE session_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, mapError(err, "failed to query session")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Session])
	if err != nil {
		return nil, mapError(err, "failed to collect session row")
	}
	return &domain.Session{
		SessionID:      m.SessionID,
		UserID:         m.UserID,
		CreatedAt:      m.CreatedAt,
		ExpiresAt:      m.ExpiresAt,
		LastActivityAt: m.LastActivityAt,
		RevokedAt:      m.RevokedAt,
	}, nil
}

// TouchSession only extends sessions that have not been revoked.
func (r *PgxSessionRepository) TouchSession(ctx context.Context, sessionID string, lastActivityAt time.Time, expiresAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE sessions SET last_activity_at = $2, expires_at = $3
		WHERE session_id = $1 AND revoked_at IS NULL;`,
		sessionID, lastActivityAt, expiresAt,
	)
	if err != nil {
		return mapError(err, "failed to touch session")
	}
	return expectOneRow(tag)
}

func (r *PgxSessionRepository) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE sessions SET revoked_at = $2 WHERE session_id = $1 AND revoked_at IS NULL;`,
		sessionID, revokedAt,
	)
	return mapError(err, "failed to revoke session")
}

func (r *PgxSessionRepository) RevokeUserSessions(ctx context.Context, userID string, revokedAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE sessions SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL;`,
		userID, revokedAt,
	)
	return mapError(err, "failed to revoke user sessions")
}

func (r *PgxSessionRepository) SavePasswordReset(ctx context.Context, reset domain.PasswordReset) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3);`,
		reset.TokenHash, reset.UserID, reset.ExpiresAt,
	)
	return mapError(err, "failed to save password reset")
}

func (r *PgxSessionRepository) FindPasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT token_hash, user_id, expires_at, used_at FROM password_resets WHERE token_hash = $1;`,
		tokenHash,
	)
	if err != nil {
		return nil, mapError(err, "failed to query password reset")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PasswordReset])
	if err != nil {
		return nil, mapError(err, "failed to collect password reset row")
	}
	return &domain.PasswordReset{TokenHash: m.TokenHash, UserID: m.UserID, ExpiresAt: m.ExpiresAt, UsedAt: m.UsedAt}, nil
}

// MarkPasswordResetUsed fails with ErrNotFound if the token was already consumed.
func (r *PgxSessionRepository) MarkPasswordResetUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE password_resets SET used_at = $2 WHERE token_hash = $1 AND used_at IS NULL;`,
		tokenHash, usedAt,
	)
	if err != nil {
		return mapError(err, "failed to mark password reset used")
	}
	return expectOneRow(tag)
}
