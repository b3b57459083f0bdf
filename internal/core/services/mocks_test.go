package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- MockBudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, userID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByKey(ctx context.Context, key domain.BudgetKey) (*domain.Budget, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, userID string, month *string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	args := m.Called(ctx, userID, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) AddSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, key, amount, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SubtractSpent(ctx context.Context, key domain.BudgetKey, amount decimal.Decimal, now time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, key, amount, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) RecalculateSpent(ctx context.Context, key domain.BudgetKey, now time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, key, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) MergeBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, bool, error) {
	args := m.Called(ctx, budget)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Budget), args.Bool(1), args.Error(2)
}

// --- MockTransactionWriter ---

type MockTransactionWriter struct {
	mock.Mock
}

var _ portsrepo.TransactionWriter = (*MockTransactionWriter)(nil)

func (m *MockTransactionWriter) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionWriter) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionWriter) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

// --- MockGoalRepository ---

type MockGoalRepository struct {
	mock.Mock
}

var _ portsrepo.GoalRepositoryFacade = (*MockGoalRepository)(nil)

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, userID string, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, userID string, goalID string) error {
	args := m.Called(ctx, userID, goalID)
	return args.Error(0)
}

// --- MockProfileRepository ---

type MockProfileRepository struct {
	mock.Mock
}

var _ portsrepo.ProfileRepositoryFacade = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// --- MockAvatarStore ---

type MockAvatarStore struct {
	mock.Mock
}

var _ portsrepo.AvatarStore = (*MockAvatarStore)(nil)

func (m *MockAvatarStore) Upload(ctx context.Context, fileID string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, fileID, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockAvatarStore) URL(fileID string) string {
	args := m.Called(fileID)
	return args.String(0)
}

// --- MockUserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// --- MockSessionRepository ---

type MockSessionRepository struct {
	mock.Mock
}

var _ portsrepo.SessionRepositoryFacade = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) TouchSession(ctx context.Context, sessionID string, lastActivityAt time.Time, expiresAt time.Time) error {
	args := m.Called(ctx, sessionID, lastActivityAt, expiresAt)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	args := m.Called(ctx, sessionID, revokedAt)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeUserSessions(ctx context.Context, userID string, revokedAt time.Time) error {
	args := m.Called(ctx, userID, revokedAt)
	return args.Error(0)
}

func (m *MockSessionRepository) SavePasswordReset(ctx context.Context, reset domain.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *MockSessionRepository) FindPasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *MockSessionRepository) MarkPasswordResetUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	args := m.Called(ctx, tokenHash, usedAt)
	return args.Error(0)
}

// --- MockTokenService ---

type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateSessionToken(ctx context.Context, userID string, sessionID string, expiresAt time.Time) (string, error) {
	args := m.Called(ctx, userID, sessionID, expiresAt)
	return args.String(0), args.Error(1)
}

// --- MockProfileService ---

type MockProfileService struct {
	mock.Mock
}

var _ portssvc.ProfileSvcFacade = (*MockProfileService)(nil)

func (m *MockProfileService) CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) GetOrCreateProfile(ctx context.Context, user domain.CurrentUser) (*domain.Profile, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.Profile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*domain.Profile, error) {
	args := m.Called(ctx, userID, r, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// --- capturingNotifier ---

type capturingNotifier struct {
	email string
	token string
}

func (n *capturingNotifier) NotifyPasswordReset(_ context.Context, email string, token string, _ time.Time) error {
	n.email = email
	n.token = token
	return nil
}
