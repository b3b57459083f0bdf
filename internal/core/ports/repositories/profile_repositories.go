package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// ProfileReader defines read operations for profile data
type ProfileReader interface {
	// FindProfileByID retrieves the profile whose ID equals the identity user ID.
	FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error)

	// FindProfileByEmail retrieves a profile by its (case-insensitive) email.
	FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

// ProfileWriter defines write operations for profile data
type ProfileWriter interface {
	// SaveProfile persists a new profile.
	SaveProfile(ctx context.Context, profile domain.Profile) error

	// UpdateProfile updates everything except the email.
	UpdateProfile(ctx context.Context, profile domain.Profile) error
}

// ProfileRepositoryFacade combines all profile-related repository interfaces
type ProfileRepositoryFacade interface {
	ProfileReader
	ProfileWriter
}
