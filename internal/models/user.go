package models

import "time"

// User is a row of the users table.
type User struct {
	UserID         string    `db:"user_id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	PasswordHash   *string   `db:"password_hash"`
	AuthProvider   string    `db:"auth_provider"`
	ProviderUserID *string   `db:"provider_user_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// Profile is a row of the profiles table.
type Profile struct {
	ProfileID     string     `db:"profile_id"`
	Username      string     `db:"username"`
	Email         string     `db:"email"`
	FirstName     *string    `db:"first_name"`
	LastName      *string    `db:"last_name"`
	BirthDate     *time.Time `db:"birth_date"`
	AvatarURL     *string    `db:"avatar_url"`
	CreatedDate   time.Time  `db:"created_date"`
	LastUpdatedAt time.Time  `db:"last_updated_at"`
}
