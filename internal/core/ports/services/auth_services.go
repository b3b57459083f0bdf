package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// TokenSvcFacade signs and parses session tokens.
type TokenSvcFacade interface {
	// GenerateSessionToken issues a JWT whose subject is the user and whose ID is the session.
	GenerateSessionToken(ctx context.Context, userID string, sessionID string, expiresAt time.Time) (string, error)
}

// GoogleOAuthSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCode exchanges an authorization code and verifies the returned ID token.
	ExchangeCode(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}

// IdentitySvc is the identity provider contract: sessions and current user.
type IdentitySvc interface {
	// Register creates credentials and the matching profile.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// CreateSession logs in with email and password.
	CreateSession(ctx context.Context, email string, password string) (*domain.IssuedSession, error)
	// CreateExternalSession logs in with a verified external identity, creating the user on first use.
	CreateExternalSession(ctx context.Context, identity domain.ExternalIdentity) (*domain.IssuedSession, error)
	// GetCurrentUser returns the user behind a live session.
	GetCurrentUser(ctx context.Context, sessionID string) (*domain.CurrentUser, error)
	// DeleteSession logs a session out.
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionActivitySvc validates sessions and tracks inactivity.
type SessionActivitySvc interface {
	// ValidateSession fails with apperrors.ErrUnauthorized unless the session is live and owned by userID.
	ValidateSession(ctx context.Context, userID string, sessionID string) error
	// TouchSession records user activity, restarting the inactivity timer.
	TouchSession(ctx context.Context, sessionID string) (domain.SessionStatus, error)
	// SessionStatus reports the inactivity state without counting as activity.
	SessionStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error)
}

// PasswordResetSvc issues and redeems password reset tokens.
type PasswordResetSvc interface {
	// RequestPasswordReset issues a reset token when the email is known. Unknown emails are not reported.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword redeems a token and sets a new password, logging the user out everywhere.
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

// AuthSvcFacade combines all authentication-related service interfaces
type AuthSvcFacade interface {
	IdentitySvc
	SessionActivitySvc
	PasswordResetSvc
}

// PasswordResetNotifier delivers reset tokens to users.
type PasswordResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email string, token string, expiresAt time.Time) error
}
