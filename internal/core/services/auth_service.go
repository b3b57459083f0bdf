package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils"
	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

// expiryRevokeTimeout bounds the database call made when an idle session times out.
const expiryRevokeTimeout = 5 * time.Second

// AuthService is the identity provider: credentials, sessions and password resets.
type AuthService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	sessionRepo portsrepo.SessionRepositoryFacade
	tokens      portssvc.TokenSvcFacade
	profiles    portssvc.ProfileSvcFacade
	notifier    portssvc.PasswordResetNotifier
	logger      *slog.Logger

	tokenLifetime time.Duration
	resetExpiry   time.Duration
	idleTimeout   time.Duration
	warnBefore    time.Duration
	scheduler     Scheduler

	sessions *SessionManager
}

// AuthServiceOption is a functional option for configuring the auth service
type AuthServiceOption func(*AuthService)

// WithSessionTimeouts sets the inactivity timeout and how long before it the warning starts.
func WithSessionTimeouts(idle, warnBefore time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		s.idleTimeout = idle
		s.warnBefore = warnBefore
	}
}

// WithTokenLifetime caps how long a session token is valid regardless of activity.
func WithTokenLifetime(d time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		s.tokenLifetime = d
	}
}

// WithPasswordResetExpiry sets how long reset tokens stay valid.
func WithPasswordResetExpiry(d time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		s.resetExpiry = d
	}
}

// WithResetNotifier replaces the default logging notifier.
func WithResetNotifier(n portssvc.PasswordResetNotifier) AuthServiceOption {
	return func(s *AuthService) {
		s.notifier = n
	}
}

// WithAuthScheduler replaces time.AfterFunc for session timers.
func WithAuthScheduler(scheduler Scheduler) AuthServiceOption {
	return func(s *AuthService) {
		s.scheduler = scheduler
	}
}

// WithAuthClock overrides the clock for sessions and tokens.
func WithAuthClock(clock func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.Clock = clock
	}
}

// WithAuthLogger sets the logger used outside request scope, e.g. by expiry timers.
func WithAuthLogger(logger *slog.Logger) AuthServiceOption {
	return func(s *AuthService) {
		s.logger = logger
	}
}

// NewAuthService creates the auth service and its session manager.
func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	sessionRepo portsrepo.SessionRepositoryFacade,
	tokens portssvc.TokenSvcFacade,
	profiles portssvc.ProfileSvcFacade,
	options ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		tokens:        tokens,
		profiles:      profiles,
		logger:        slog.Default(),
		tokenLifetime: 24 * time.Hour,
		resetExpiry:   time.Hour,
		idleTimeout:   2 * time.Minute,
		warnBefore:    time.Minute,
		scheduler:     AfterFuncScheduler,
	}
	for _, option := range options {
		option(s)
	}
	if s.notifier == nil {
		s.notifier = NewLoggingResetNotifier(s.logger)
	}
	s.sessions = NewSessionManager(s.idleTimeout, s.warnBefore, s.expireSession,
		WithScheduler(s.scheduler),
		WithSessionClock(s.Now),
		WithWarningCallback(func(sessionID string) {
			s.logger.Debug("Session entering inactivity warning", slog.String("session_id", sessionID))
		}),
	)
	return s
}

var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

// Stop cancels all inactivity timers.
func (s *AuthService) Stop() {
	s.sessions.Stop()
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.TrimSpace(req.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", apperrors.ErrValidation, email)
	}
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         req.Username,
		PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal,
		CreatedAt:    s.Now(),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("email", email))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	profile := domain.Profile{
		ProfileID: user.UserID,
		Username:  req.Username,
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if _, err := s.profiles.CreateProfile(ctx, profile); err != nil {
		// The profile is recreated on first read.
		s.LogError(ctx, err, "Failed to create profile at signup", slog.String("user_id", user.UserID))
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *AuthService) CreateSession(ctx context.Context, email string, password string) (*domain.IssuedSession, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	return s.issueSession(ctx, user)
}

// CreateExternalSession signs in with a provider identity. A verified email that matches an
// existing account signs into that account.
func (s *AuthService) CreateExternalSession(ctx context.Context, identity domain.ExternalIdentity) (*domain.IssuedSession, error) {
	if identity.Subject == "" || !identity.EmailVerified {
		return nil, fmt.Errorf("%w: provider identity is not verified", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByProviderDetails(ctx, identity.Provider, identity.Subject)
	if err == nil {
		return s.issueSession(ctx, user)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up provider user: %w", err)
	}

	user, err = s.userRepo.FindUserByEmail(ctx, identity.Email)
	if err == nil {
		return s.issueSession(ctx, user)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	subject := identity.Subject
	name := identity.Name
	if name == "" {
		name = usernameFromEmail(identity.Email)
	}
	newUser := domain.User{
		UserID:         uuid.NewString(),
		Email:          identity.Email,
		Name:           name,
		AuthProvider:   identity.Provider,
		ProviderUserID: &subject,
		CreatedAt:      s.Now(),
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create provider user: %w", err)
	}
	if _, err := s.profiles.CreateProfile(ctx, domain.Profile{ProfileID: newUser.UserID, Username: name, Email: identity.Email}); err != nil {
		s.LogError(ctx, err, "Failed to create profile for provider user", slog.String("user_id", newUser.UserID))
	}
	s.LogInfo(ctx, "User registered via provider",
		slog.String("user_id", newUser.UserID),
		slog.String("provider", string(identity.Provider)))
	return s.issueSession(ctx, &newUser)
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*domain.IssuedSession, error) {
	now := s.Now()
	session := domain.Session{
		SessionID:      uuid.NewString(),
		UserID:         user.UserID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.idleTimeout),
		LastActivityAt: now,
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	tokenExpiry := now.Add(s.tokenLifetime)
	token, err := s.tokens.GenerateSessionToken(ctx, user.UserID, session.SessionID, tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	s.sessions.Resume(session.SessionID, session.ExpiresAt)

	s.LogInfo(ctx, "Session created", slog.String("user_id", user.UserID), slog.String("session_id", session.SessionID))
	return &domain.IssuedSession{
		Token:     token,
		ExpiresAt: tokenExpiry,
		Session:   session,
		User: domain.CurrentUser{
			UserID:    user.UserID,
			Email:     user.Email,
			Name:      user.Name,
			SessionID: session.SessionID,
		},
	}, nil
}

// liveSession loads a session and rejects it unless it is still active.
func (s *AuthService) liveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown session", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.IsActive(s.Now()) {
		return nil, fmt.Errorf("%w: session expired or logged out", apperrors.ErrUnauthorized)
	}
	return session, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, sessionID string) (*domain.CurrentUser, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return &domain.CurrentUser{UserID: user.UserID, Email: user.Email, Name: user.Name, SessionID: sessionID}, nil
}

func (s *AuthService) DeleteSession(ctx context.Context, sessionID string) error {
	s.sessions.Forget(sessionID)
	if err := s.sessionRepo.RevokeSession(ctx, sessionID, s.Now()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.LogInfo(ctx, "Session deleted", slog.String("session_id", sessionID))
	return nil
}

func (s *AuthService) ValidateSession(ctx context.Context, userID string, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: token carries no session", apperrors.ErrUnauthorized)
	}
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return fmt.Errorf("%w: session belongs to another user", apperrors.ErrUnauthorized)
	}
	return nil
}

func (s *AuthService) TouchSession(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	if _, err := s.liveSession(ctx, sessionID); err != nil {
		return domain.SessionStatus{SessionID: sessionID}, err
	}
	status := s.sessions.Touch(sessionID)
	if err := s.sessionRepo.TouchSession(ctx, sessionID, s.Now(), status.ExpiresAt); err != nil {
		return status, fmt.Errorf("failed to record session activity: %w", err)
	}
	return status, nil
}

// SessionStatus falls back to the stored expiry for sessions this process is not timing,
// and starts timing them.
func (s *AuthService) SessionStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	if status, ok := s.sessions.Status(sessionID); ok {
		return status, nil
	}
	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.SessionStatus{SessionID: sessionID}, nil
		}
		return domain.SessionStatus{}, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.IsActive(s.Now()) {
		return domain.SessionStatus{SessionID: sessionID, ExpiresAt: session.ExpiresAt}, nil
	}
	return s.sessions.Resume(sessionID, session.ExpiresAt), nil
}

// expireSession is the inactivity timer callback.
func (s *AuthService) expireSession(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), expiryRevokeTimeout)
	defer cancel()
	if err := s.sessionRepo.RevokeSession(ctx, sessionID, s.Now()); err != nil {
		s.logger.Error("Failed to revoke idle session", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Session logged out after inactivity", slog.String("session_id", sessionID))
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", apperrors.ErrValidation, email)
	}
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := utils.GenerateURLSafeToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	reset := domain.PasswordReset{
		TokenHash: utils.HashToken(token),
		UserID:    user.UserID,
		ExpiresAt: s.Now().Add(s.resetExpiry),
	}
	if err := s.sessionRepo.SavePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.notifier.NotifyPasswordReset(ctx, user.Email, token, reset.ExpiresAt); err != nil {
		return fmt.Errorf("failed to deliver reset token: %w", err)
	}
	s.LogInfo(ctx, "Password reset issued", slog.String("user_id", user.UserID))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	invalid := fmt.Errorf("%w: invalid or expired reset token", apperrors.ErrValidation)

	hash := utils.HashToken(token)
	reset, err := s.sessionRepo.FindPasswordReset(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	now := s.Now()
	if reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
		return invalid
	}
	if err := s.sessionRepo.MarkPasswordResetUsed(ctx, hash, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, reset.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.sessionRepo.RevokeUserSessions(ctx, reset.UserID, now); err != nil {
		return fmt.Errorf("failed to log out existing sessions: %w", err)
	}
	s.LogInfo(ctx, "Password reset completed", slog.String("user_id", reset.UserID))
	return nil
}

// loggingResetNotifier writes reset links to the log instead of sending mail.
type loggingResetNotifier struct {
	logger *slog.Logger
}

// NewLoggingResetNotifier creates a notifier that logs reset tokens.
func NewLoggingResetNotifier(logger *slog.Logger) portssvc.PasswordResetNotifier {
	return &loggingResetNotifier{logger: logger}
}

func (n *loggingResetNotifier) NotifyPasswordReset(ctx context.Context, email string, token string, expiresAt time.Time) error {
	n.logger.InfoContext(ctx, "Password reset token issued",
		slog.String("email", email),
		slog.String("token", token),
		slog.Time("expires_at", expiresAt))
	return nil
}
