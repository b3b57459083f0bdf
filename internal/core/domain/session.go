package domain

import "time"

// Session is a logged-in browser session. The JWT carries SessionID as its ID claim.
type Session struct {
	SessionID      string     `json:"sessionID"`
	UserID         string     `json:"userID"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
	RevokedAt      *time.Time `json:"-"`
}

// IsActive reports whether the session can still authenticate requests.
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// SessionStatus reports the inactivity state of a session.
type SessionStatus struct {
	SessionID string    `json:"sessionID"`
	Active    bool      `json:"active"`
	Warning   bool      `json:"warning"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PasswordReset is a single-use reset token. Only the hash is stored.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// CurrentUser is what the identity provider reports for a live session.
type CurrentUser struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	SessionID string `json:"sessionID"`
}

// IssuedSession is the result of a successful login.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
	Session   Session
	User      CurrentUser
}

// ExternalIdentity is a verified identity asserted by an external provider.
type ExternalIdentity struct {
	Provider      AuthProvider
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}
