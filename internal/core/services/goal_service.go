package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/metrics"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type goalService struct {
	BaseService
	goalRepo portsrepo.GoalRepositoryFacade
	cache    *GoalCache
}

// GoalServiceOption is a functional option for configuring the goal service
type GoalServiceOption func(*goalService)

// WithGoalClock overrides the clock used for audit timestamps.
func WithGoalClock(clock func() time.Time) GoalServiceOption {
	return func(s *goalService) {
		s.Clock = clock
	}
}

// NewGoalService creates a new goal service backed by repo and the shared view cache.
func NewGoalService(repo portsrepo.GoalRepositoryFacade, cache *GoalCache, options ...GoalServiceOption) portssvc.GoalSvcFacade {
	svc := &goalService{
		goalRepo: repo,
		cache:    cache,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

func (s *goalService) CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	if err := requirePositive("targetAmount", req.TargetAmount); err != nil {
		return nil, err
	}
	saved := decimal.Zero
	if req.SavedAmount != nil {
		if err := requireNonNegative("savedAmount", *req.SavedAmount); err != nil {
			return nil, err
		}
		saved = *req.SavedAmount
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		SavedAmount:  saved,
		Deadline:     deadline,
		Description:  req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	goal.RecomputeCompleted()

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.cache.Put(goal)
	return &goal, nil
}

// GetGoalByID serves from the view cache when possible.
func (s *goalService) GetGoalByID(ctx context.Context, userID string, goalID string) (*domain.Goal, error) {
	if g, ok := s.cache.Get(userID, goalID); ok {
		return &g, nil
	}
	goal, err := s.goalRepo.FindGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal %s: %w", goalID, err)
	}
	s.cache.Put(*goal)
	return goal, nil
}

// ListGoals sorts by progress (highest first) or by deadline (soonest first).
func (s *goalService) ListGoals(ctx context.Context, userID string, sortBy domain.GoalSort) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListGoals(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	for _, g := range goals {
		s.cache.Put(g)
	}

	switch sortBy {
	case domain.GoalSortDeadline:
		sort.SliceStable(goals, func(i, j int) bool {
			return goals[i].Deadline.Before(goals[j].Deadline)
		})
	case domain.GoalSortProgress, "":
		sort.SliceStable(goals, func(i, j int) bool {
			return metrics.GoalProgress(goals[i]).GreaterThan(metrics.GoalProgress(goals[j]))
		})
	default:
		return nil, fmt.Errorf("%w: unknown goal sort %q", apperrors.ErrValidation, sortBy)
	}
	return goals, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, userID string, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	next := *goal
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.TargetAmount != nil {
		if err := requirePositive("targetAmount", *req.TargetAmount); err != nil {
			return nil, err
		}
		next.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		if next.Deadline, err = parseDate(*req.Deadline); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		next.Description = req.Description
	}
	return s.applyEdit(ctx, next)
}

func (s *goalService) AddProgress(ctx context.Context, userID string, goalID string, amount decimal.Decimal) (*domain.Goal, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	next := *goal
	next.SavedAmount = next.SavedAmount.Add(amount)
	return s.applyEdit(ctx, next)
}

func (s *goalService) DeleteGoal(ctx context.Context, userID string, goalID string) error {
	if err := s.goalRepo.DeleteGoal(ctx, userID, goalID); err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	s.cache.Evict(goalID)
	return nil
}

// applyEdit recomputes completion and runs the optimistic edit command.
func (s *goalService) applyEdit(ctx context.Context, next domain.Goal) (*domain.Goal, error) {
	next.RecomputeCompleted()
	next.LastUpdatedAt = s.Now()

	cmd := &GoalEditCommand{Cache: s.cache, Store: s.goalRepo, Next: next}
	if err := cmd.Execute(ctx); err != nil {
		s.LogError(ctx, err, "Goal edit rolled back", slog.String("goal_id", next.GoalID))
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return &next, nil
}
