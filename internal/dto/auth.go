package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// RegisterRequest defines the data needed to sign up.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required,min=8"`
	Username  string  `json:"username" binding:"required"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	User      CurrentUserResponse `json:"user"`
}

// CurrentUserResponse is the identity behind the current session.
type CurrentUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionStatusResponse reports inactivity state of the current session.
type SessionStatusResponse struct {
	Active           bool      `json:"active"`
	Warning          bool      `json:"warning"`
	ExpiresAt        time.Time `json:"expiresAt"`
	SecondsRemaining int       `json:"secondsRemaining"`
}

// PasswordResetRequest asks for a reset token to be issued for an email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// CompletePasswordResetRequest sets a new password using a reset token.
type CompletePasswordResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// GoogleLoginResponse carries the consent screen URL and the CSRF state the client must keep.
type GoogleLoginResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ExchangeCodeRequest defines the expected JSON body for the Google code exchange.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ToLoginResponse converts an issued session.
func ToLoginResponse(s *domain.IssuedSession) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      ToCurrentUserResponse(&s.User),
	}
}

// ToCurrentUserResponse converts a domain.CurrentUser.
func ToCurrentUserResponse(u *domain.CurrentUser) CurrentUserResponse {
	return CurrentUserResponse{ID: u.UserID, Email: u.Email, Name: u.Name}
}

// ToSessionStatusResponse converts a session status relative to now.
func ToSessionStatusResponse(s domain.SessionStatus, now time.Time) SessionStatusResponse {
	remaining := int(s.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 || !s.Active {
		remaining = 0
	}
	return SessionStatusResponse{
		Active:           s.Active,
		Warning:          s.Warning,
		ExpiresAt:        s.ExpiresAt,
		SecondsRemaining: remaining,
	}
}
