package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

// MaxAvatarSize is the largest accepted profile picture, in bytes.
const MaxAvatarSize = 5 << 20

var avatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type profileService struct {
	BaseService
	profileRepo portsrepo.ProfileRepositoryFacade
	avatars     portsrepo.AvatarStore
}

// ProfileServiceOption is a functional option for configuring the profile service
type ProfileServiceOption func(*profileService)

// WithAvatarStore enables avatar uploads.
func WithAvatarStore(store portsrepo.AvatarStore) ProfileServiceOption {
	return func(s *profileService) {
		s.avatars = store
	}
}

// WithProfileClock overrides the clock used for audit timestamps.
func WithProfileClock(clock func() time.Time) ProfileServiceOption {
	return func(s *profileService) {
		s.Clock = clock
	}
}

// NewProfileService creates a new profile service.
func NewProfileService(repo portsrepo.ProfileRepositoryFacade, options ...ProfileServiceOption) portssvc.ProfileSvcFacade {
	svc := &profileService{profileRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ProfileSvcFacade = (*profileService)(nil)

func (s *profileService) CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	if err := checkmail.ValidateFormat(profile.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", apperrors.ErrValidation, profile.Email)
	}
	now := s.Now()
	if profile.CreatedDate.IsZero() {
		profile.CreatedDate = now
	}
	profile.LastUpdatedAt = now
	if profile.Username == "" {
		profile.Username = usernameFromEmail(profile.Email)
	}
	if err := s.profileRepo.SaveProfile(ctx, profile); err != nil {
		s.LogError(ctx, err, "Failed to save profile", slog.String("profile_id", profile.ProfileID))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

// GetOrCreateProfile never reports a missing profile: older accounts whose profile was keyed
// differently are found by email, and accounts with none get a fresh one.
func (s *profileService) GetOrCreateProfile(ctx context.Context, user domain.CurrentUser) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindProfileByID(ctx, user.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if user.Email != "" {
		profile, err = s.profileRepo.FindProfileByEmail(ctx, user.Email)
		if err == nil {
			s.LogInfo(ctx, "Profile found by email fallback",
				slog.String("user_id", user.UserID),
				slog.String("profile_id", profile.ProfileID))
			return profile, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to get profile by email: %w", err)
		}
	}

	s.LogInfo(ctx, "No profile found, creating one", slog.String("user_id", user.UserID))
	username := user.Name
	if username == "" {
		username = usernameFromEmail(user.Email)
	}
	return s.CreateProfile(ctx, domain.Profile{
		ProfileID: user.UserID,
		Username:  username,
		Email:     user.Email,
	})
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, profile.Email) {
		return nil, fmt.Errorf("%w: email cannot be changed", apperrors.ErrValidation)
	}
	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidation)
		}
		profile.Username = *req.Username
	}
	if req.FirstName != nil {
		profile.FirstName = req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = req.LastName
	}
	if req.BirthDate != nil {
		birth, err := parseDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		profile.BirthDate = &birth
	}
	profile.LastUpdatedAt = s.Now()

	if err := s.profileRepo.UpdateProfile(ctx, *profile); err != nil {
		s.LogError(ctx, err, "Failed to update profile", slog.String("profile_id", userID))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*domain.Profile, error) {
	if s.avatars == nil {
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "avatar uploads are not configured", nil)
	}
	if size <= 0 || size > MaxAvatarSize {
		return nil, fmt.Errorf("%w: avatar must be between 1 byte and 5 MiB", apperrors.ErrValidation)
	}
	if !avatarContentTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported avatar content type %q", apperrors.ErrValidation, contentType)
	}

	profile, err := s.profileRepo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	fileID, err := s.avatars.Upload(ctx, uuid.NewString(), io.LimitReader(r, MaxAvatarSize), contentType)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload avatar", slog.String("profile_id", userID))
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}
	url := s.avatars.URL(fileID)
	profile.AvatarURL = &url
	profile.LastUpdatedAt = s.Now()

	if err := s.profileRepo.UpdateProfile(ctx, *profile); err != nil {
		s.LogError(ctx, err, "Failed to record avatar URL", slog.String("profile_id", userID), slog.String("file_id", fileID))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func usernameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
