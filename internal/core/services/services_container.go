package services

import (
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/core/metrics"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// avatars may be nil, in which case avatar uploads are rejected. The returned AuthService must
// be stopped on shutdown to cancel session timers.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, avatars portsrepo.AvatarStore, logger *slog.Logger) (*portssvc.ServiceContainer, *AuthService, error) {
	container := &portssvc.ServiceContainer{}

	goalCache, err := NewGoalCache(cfg.GoalCacheSize)
	if err != nil {
		return nil, nil, err
	}

	profileOpts := []ProfileServiceOption{}
	if avatars != nil {
		profileOpts = append(profileOpts, WithAvatarStore(avatars))
	}
	container.Profile = NewProfileService(repos.ProfileRepo, profileOpts...)

	reconciler := NewBudgetReconciler(repos.BudgetRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, reconciler)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.TransactionRepo)
	container.Goal = NewGoalService(repos.GoalRepo, goalCache)
	container.Dashboard = NewDashboardService(repos.TransactionRepo, repos.GoalRepo,
		WithPaymentClassifier(metrics.DueWindowClassifier{Days: cfg.DueSoonDays}),
	)

	auth := NewAuthService(
		repos.UserRepo,
		repos.SessionRepo,
		NewTokenService(cfg),
		container.Profile,
		WithSessionTimeouts(cfg.SessionIdleTimeout, cfg.SessionWarningBefore),
		WithTokenLifetime(cfg.JWTExpiryDuration),
		WithPasswordResetExpiry(cfg.PasswordResetExpiry),
		WithAuthLogger(logger),
	)
	container.Auth = auth
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container, auth, nil
}
