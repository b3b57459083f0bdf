package domain

import "time"

// AuthProvider names where a user's credentials live.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User is the identity record behind a session.
type User struct {
	UserID         string       `json:"userID"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	PasswordHash   *string      `json:"-"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID *string      `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
}
