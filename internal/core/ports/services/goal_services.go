package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/shopspring/decimal"
)

// GoalReaderSvc defines read operations for goals
type GoalReaderSvc interface {
	GetGoalByID(ctx context.Context, userID string, goalID string) (*domain.Goal, error)
	ListGoals(ctx context.Context, userID string, sortBy domain.GoalSort) ([]domain.Goal, error)
}

// GoalWriterSvc defines write operations for goals
type GoalWriterSvc interface {
	CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error)
	// UpdateGoal applies an edit optimistically and rolls the cached view back if the store rejects it.
	UpdateGoal(ctx context.Context, userID string, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error)
	// AddProgress adds amount to the saved amount and recomputes completion.
	AddProgress(ctx context.Context, userID string, goalID string, amount decimal.Decimal) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, userID string, goalID string) error
}

// GoalSvcFacade combines all goal-related service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
}
