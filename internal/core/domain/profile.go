package domain

import "time"

// Profile holds the user-facing details of an account. ProfileID equals the identity user ID.
type Profile struct {
	ProfileID     string     `json:"profileID"`
	Username      string     `json:"username"`
	Email         string     `json:"email"` // immutable after creation
	FirstName     *string    `json:"firstName,omitempty"`
	LastName      *string    `json:"lastName,omitempty"`
	BirthDate     *time.Time `json:"birthDate,omitempty"`
	AvatarURL     *string    `json:"avatarUrl,omitempty"`
	CreatedDate   time.Time  `json:"createdDate"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
}
