package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	now        time.Time
	mockRepo   *MockProfileRepository
	mockAvatar *MockAvatarStore
	service    portssvc.ProfileSvcFacade
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	suite.mockRepo = new(MockProfileRepository)
	suite.mockAvatar = new(MockAvatarStore)
	suite.service = services.NewProfileService(suite.mockRepo,
		services.WithAvatarStore(suite.mockAvatar),
		services.WithProfileClock(func() time.Time { return suite.now }))
}

func (suite *ProfileServiceTestSuite) TestGetOrCreate_FoundByID() {
	p := &domain.Profile{ProfileID: "u1", Email: "a@example.com"}
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(p, nil).Once()

	got, err := suite.service.GetOrCreateProfile(suite.ctx, domain.CurrentUser{UserID: "u1", Email: "a@example.com"})
	suite.Require().NoError(err)
	suite.Equal("u1", got.ProfileID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindProfileByEmail", mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestGetOrCreate_FallsBackToEmail() {
	legacy := &domain.Profile{ProfileID: "legacy-doc", Email: "a@example.com"}
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindProfileByEmail", suite.ctx, "a@example.com").Return(legacy, nil).Once()

	got, err := suite.service.GetOrCreateProfile(suite.ctx, domain.CurrentUser{UserID: "u1", Email: "a@example.com"})
	suite.Require().NoError(err)
	suite.Equal("legacy-doc", got.ProfileID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveProfile", mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestGetOrCreate_CreatesWhenMissing() {
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindProfileByEmail", suite.ctx, "jane@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveProfile", suite.ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.ProfileID == "u1" && p.Username == "jane" && p.CreatedDate.Equal(suite.now)
	})).Return(nil).Once()

	got, err := suite.service.GetOrCreateProfile(suite.ctx, domain.CurrentUser{UserID: "u1", Email: "jane@example.com"})
	suite.Require().NoError(err)
	suite.Equal("jane", got.Username)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestGetOrCreate_PropagatesStoreFailure() {
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(nil, assert.AnError).Once()

	_, err := suite.service.GetOrCreateProfile(suite.ctx, domain.CurrentUser{UserID: "u1", Email: "a@example.com"})
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_EmailImmutable() {
	p := &domain.Profile{ProfileID: "u1", Username: "a", Email: "a@example.com"}
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(p, nil).Once()

	other := "b@example.com"
	_, err := suite.service.UpdateProfile(suite.ctx, "u1", dto.UpdateProfileRequest{Email: &other})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateProfile", mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_SameEmailAllowed() {
	p := &domain.Profile{ProfileID: "u1", Username: "a", Email: "a@example.com"}
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(p, nil).Once()
	suite.mockRepo.On("UpdateProfile", suite.ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.FirstName != nil && *p.FirstName == "Ann" && p.BirthDate != nil
	})).Return(nil).Once()

	same := "A@Example.com"
	first := "Ann"
	birth := "1990-02-03"
	got, err := suite.service.UpdateProfile(suite.ctx, "u1", dto.UpdateProfileRequest{Email: &same, FirstName: &first, BirthDate: &birth})
	suite.Require().NoError(err)
	suite.Equal("a@example.com", got.Email)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_StoresURL() {
	p := &domain.Profile{ProfileID: "u1", Email: "a@example.com"}
	suite.mockRepo.On("FindProfileByID", suite.ctx, "u1").Return(p, nil).Once()
	suite.mockAvatar.On("Upload", suite.ctx, mock.AnythingOfType("string"), mock.Anything, "image/png").Return("file-1", nil).Once()
	suite.mockAvatar.On("URL", "file-1").Return("https://blob/files/file-1/view").Once()
	suite.mockRepo.On("UpdateProfile", suite.ctx, mock.MatchedBy(func(p domain.Profile) bool {
		return p.AvatarURL != nil && *p.AvatarURL == "https://blob/files/file-1/view"
	})).Return(nil).Once()

	got, err := suite.service.UploadAvatar(suite.ctx, "u1", strings.NewReader("png-bytes"), 9, "image/png")
	suite.Require().NoError(err)
	suite.Equal("https://blob/files/file-1/view", *got.AvatarURL)
	suite.mockAvatar.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_Validation() {
	_, err := suite.service.UploadAvatar(suite.ctx, "u1", strings.NewReader("x"), services.MaxAvatarSize+1, "image/png")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.UploadAvatar(suite.ctx, "u1", strings.NewReader("x"), 1, "application/pdf")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockAvatar.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProfileServiceTestSuite) TestUploadAvatar_NotConfigured() {
	svc := services.NewProfileService(suite.mockRepo)
	_, err := svc.UploadAvatar(suite.ctx, "u1", strings.NewReader("x"), 1, "image/png")

	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr))
	suite.Equal(http.StatusServiceUnavailable, appErr.Code)
}

func (suite *ProfileServiceTestSuite) TestCreateProfile_InvalidEmail() {
	_, err := suite.service.CreateProfile(suite.ctx, domain.Profile{ProfileID: "u1", Email: "not-an-email"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
