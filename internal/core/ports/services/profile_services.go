package services

import (
	"context"
	"io"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// ProfileSvcFacade defines profile operations.
type ProfileSvcFacade interface {
	// CreateProfile persists the profile created at signup.
	CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error)
	// GetOrCreateProfile looks the profile up by user ID, then by email, and creates one if neither exists.
	GetOrCreateProfile(ctx context.Context, user domain.CurrentUser) (*domain.Profile, error)
	// UpdateProfile edits a profile. The email cannot change.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.Profile, error)
	// UploadAvatar stores a picture in the blob store and records its URL on the profile.
	UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*domain.Profile, error)
}

// DashboardSvc derives the overview page from a user's confirmed data.
type DashboardSvc interface {
	// GetDashboard computes metrics for month (YYYY-MM) or for all data when month is empty.
	GetDashboard(ctx context.Context, userID string, month string) (*domain.Dashboard, error)
}
