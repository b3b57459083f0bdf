package models

import "time"

// Session is a row of the sessions table.
type Session struct {
	SessionID      string     `db:"session_id"`
	UserID         string     `db:"user_id"`
	CreatedAt      time.Time  `db:"created_at"`
	ExpiresAt      time.Time  `db:"expires_at"`
	LastActivityAt time.Time  `db:"last_activity_at"`
	RevokedAt      *time.Time `db:"revoked_at"`
}

// PasswordReset is a row of the password_resets table.
type PasswordReset struct {
	TokenHash string     `db:"token_hash"`
	UserID    string     `db:"user_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
