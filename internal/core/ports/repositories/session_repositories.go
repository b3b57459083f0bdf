package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// SessionStore persists login sessions.
type SessionStore interface {
	// SaveSession persists a new session.
	SaveSession(ctx context.Context, session domain.Session) error

	// FindSessionByID retrieves a session, revoked or not.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error)

	// TouchSession records activity and pushes the expiry forward.
	TouchSession(ctx context.Context, sessionID string, lastActivityAt time.Time, expiresAt time.Time) error

	// RevokeSession marks a session as logged out.
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error

	// RevokeUserSessions logs a user out everywhere.
	RevokeUserSessions(ctx context.Context, userID string, revokedAt time.Time) error
}

// PasswordResetStore persists single-use password reset tokens.
type PasswordResetStore interface {
	SavePasswordReset(ctx context.Context, reset domain.PasswordReset) error
	FindPasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, tokenHash string, usedAt time.Time) error
}

// SessionRepositoryFacade combines session and password reset persistence
type SessionRepositoryFacade interface {
	SessionStore
	PasswordResetStore
}
