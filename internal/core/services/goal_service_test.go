package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GoalServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	mockRepo *MockGoalRepository
	cache    *services.GoalCache
	service  portssvc.GoalSvcFacade
}

func (suite *GoalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.mockRepo = new(MockGoalRepository)
	cache, err := services.NewGoalCache(16)
	suite.Require().NoError(err)
	suite.cache = cache
	suite.service = services.NewGoalService(suite.mockRepo, suite.cache,
		services.WithGoalClock(func() time.Time { return suite.now }))
}

func (suite *GoalServiceTestSuite) goal(id string, target, saved int64, deadline string) domain.Goal {
	d, err := time.Parse(domain.DateLayout, deadline)
	suite.Require().NoError(err)
	g := domain.Goal{
		GoalID:       id,
		UserID:       "u1",
		Title:        "Goal " + id,
		TargetAmount: decimal.NewFromInt(target),
		SavedAmount:  decimal.NewFromInt(saved),
		Deadline:     d,
		AuditFields:  domain.AuditFields{CreatedAt: suite.now.Add(-time.Hour), LastUpdatedAt: suite.now.Add(-time.Hour)},
	}
	g.RecomputeCompleted()
	return g
}

func (suite *GoalServiceTestSuite) TestCreateGoal_ComputesCompleted() {
	saved := decimal.NewFromInt(1000)
	suite.mockRepo.On("SaveGoal", suite.ctx, mock.MatchedBy(func(g domain.Goal) bool {
		return g.Completed && g.UserID == "u1"
	})).Return(nil).Once()

	goal, err := suite.service.CreateGoal(suite.ctx, "u1", dto.CreateGoalRequest{
		Title:        "Laptop",
		TargetAmount: decimal.NewFromInt(1000),
		SavedAmount:  &saved,
		Deadline:     "2024-12-31",
	})
	suite.Require().NoError(err)
	suite.True(goal.Completed)

	cached, ok := suite.cache.Get("u1", goal.GoalID)
	suite.True(ok)
	suite.Equal(goal.GoalID, cached.GoalID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GoalServiceTestSuite) TestCreateGoal_RejectsNonPositiveTarget() {
	_, err := suite.service.CreateGoal(suite.ctx, "u1", dto.CreateGoalRequest{
		Title: "Nothing", TargetAmount: decimal.Zero, Deadline: "2024-12-31",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveGoal", mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestAddProgress_CompletesGoal() {
	g := suite.goal("g1", 500, 400, "2024-06-30")
	suite.mockRepo.On("FindGoalByID", suite.ctx, "u1", "g1").Return(&g, nil).Once()
	suite.mockRepo.On("UpdateGoal", suite.ctx, mock.AnythingOfType("domain.Goal")).Return(nil).Once()

	updated, err := suite.service.AddProgress(suite.ctx, "u1", "g1", decimal.NewFromInt(100))
	suite.Require().NoError(err)
	suite.True(updated.Completed)
	suite.True(updated.SavedAmount.Equal(decimal.NewFromInt(500)))
	suite.True(updated.LastUpdatedAt.Equal(suite.now))

	cached, ok := suite.cache.Get("u1", "g1")
	suite.Require().True(ok)
	suite.True(cached.Completed)
}

func (suite *GoalServiceTestSuite) TestAddProgress_RejectsNonPositive() {
	_, err := suite.service.AddProgress(suite.ctx, "u1", "g1", decimal.NewFromInt(-5))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *GoalServiceTestSuite) TestRejectsAmountsFinerThanStoredScale() {
	_, err := suite.service.CreateGoal(suite.ctx, "u1", dto.CreateGoalRequest{
		Title: "Bike", TargetAmount: decimal.RequireFromString("999.99999"), Deadline: "2024-12-31",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveGoal", mock.Anything, mock.Anything)

	_, err = suite.service.AddProgress(suite.ctx, "u1", "g1", decimal.RequireFromString("0.00001"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindGoalByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestUpdateGoal_RollsBackOnStoreFailure() {
	g := suite.goal("g1", 500, 100, "2024-06-30")
	suite.cache.Put(g)
	suite.mockRepo.On("UpdateGoal", suite.ctx, mock.AnythingOfType("domain.Goal")).Return(assert.AnError).Once()

	title := "Renamed"
	_, err := suite.service.UpdateGoal(suite.ctx, "u1", "g1", dto.UpdateGoalRequest{Title: &title})
	suite.ErrorIs(err, assert.AnError)

	cached, ok := suite.cache.Get("u1", "g1")
	suite.Require().True(ok)
	suite.Equal("Goal g1", cached.Title)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindGoalByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GoalServiceTestSuite) TestGetGoal_OtherUserMisses() {
	g := suite.goal("g1", 500, 100, "2024-06-30")
	suite.cache.Put(g)
	suite.mockRepo.On("FindGoalByID", suite.ctx, "u2", "g1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetGoalByID(suite.ctx, "u2", "g1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *GoalServiceTestSuite) TestListGoals_Sorting() {
	goals := []domain.Goal{
		suite.goal("a", 100, 10, "2024-09-01"),
		suite.goal("b", 100, 90, "2024-12-01"),
		suite.goal("c", 100, 50, "2024-04-01"),
	}
	suite.mockRepo.On("ListGoals", suite.ctx, "u1").Return(goals, nil)

	byProgress, err := suite.service.ListGoals(suite.ctx, "u1", domain.GoalSortProgress)
	suite.Require().NoError(err)
	suite.Equal([]string{"b", "c", "a"}, goalIDs(byProgress))

	byDeadline, err := suite.service.ListGoals(suite.ctx, "u1", domain.GoalSortDeadline)
	suite.Require().NoError(err)
	suite.Equal([]string{"c", "a", "b"}, goalIDs(byDeadline))

	_, err = suite.service.ListGoals(suite.ctx, "u1", "title")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *GoalServiceTestSuite) TestDeleteGoal_EvictsCache() {
	g := suite.goal("g1", 500, 100, "2024-06-30")
	suite.cache.Put(g)
	suite.mockRepo.On("DeleteGoal", suite.ctx, "u1", "g1").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteGoal(suite.ctx, "u1", "g1"))
	_, ok := suite.cache.Get("u1", "g1")
	suite.False(ok)
}

func goalIDs(goals []domain.Goal) []string {
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.GoalID
	}
	return ids
}

func TestGoalService(t *testing.T) {
	suite.Run(t, new(GoalServiceTestSuite))
}

// rejectingGoalStore fails every update and lets the test run code mid-call.
type rejectingGoalStore struct {
	MockGoalRepository
	during func()
}

func (s *rejectingGoalStore) UpdateGoal(context.Context, domain.Goal) error {
	if s.during != nil {
		s.during()
	}
	return assert.AnError
}

func TestGoalEditCommand_RollbackRemovesUncachedGoal(t *testing.T) {
	cache, err := services.NewGoalCache(4)
	assert.NoError(t, err)

	next := domain.Goal{GoalID: "g1", UserID: "u1", Title: "tentative"}
	cmd := &services.GoalEditCommand{Cache: cache, Store: &rejectingGoalStore{}, Next: next}

	assert.ErrorIs(t, cmd.Execute(context.Background()), assert.AnError)
	_, ok := cache.Get("u1", "g1")
	assert.False(t, ok)
}

func TestGoalEditCommand_RollbackKeepsLaterEdit(t *testing.T) {
	cache, err := services.NewGoalCache(4)
	assert.NoError(t, err)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.Put(domain.Goal{GoalID: "g1", UserID: "u1", Title: "original", AuditFields: domain.AuditFields{LastUpdatedAt: base}})

	later := domain.Goal{GoalID: "g1", UserID: "u1", Title: "later", AuditFields: domain.AuditFields{LastUpdatedAt: base.Add(2 * time.Second)}}
	store := &rejectingGoalStore{during: func() { cache.Put(later) }}
	next := domain.Goal{GoalID: "g1", UserID: "u1", Title: "tentative", AuditFields: domain.AuditFields{LastUpdatedAt: base.Add(time.Second)}}
	cmd := &services.GoalEditCommand{Cache: cache, Store: store, Next: next}

	assert.Error(t, cmd.Execute(context.Background()))
	cached, ok := cache.Get("u1", "g1")
	assert.True(t, ok)
	assert.Equal(t, "later", cached.Title)
}
