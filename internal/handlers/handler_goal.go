package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// goalHandler handles HTTP requests related to savings goals.
type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

func newGoalHandler(gs portssvc.GoalSvcFacade) *goalHandler {
	return &goalHandler{goalService: gs}
}

// registerGoalRoutes registers routes related to goals.
func registerGoalRoutes(rg *gin.RouterGroup, gs portssvc.GoalSvcFacade) {
	h := newGoalHandler(gs)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PATCH("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)
		goals.POST("/:id/progress", h.addProgress)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create goal"
// @Security BearerAuth
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create goal")
		return
	}

	logger.Info("Goal created", slog.String("goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List savings goals
// @Tags goals
// @Produce  json
// @Param   sort query string false "progress (highest first) or deadline (soonest first)" default(progress)
// @Success 200 {array} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list goals"
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListGoalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID, domain.GoalSort(params.Sort))
	if err != nil {
		respondError(c, logger, err, "Failed to list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGoalResponse(goals))
}

// getGoal godoc
// @Summary Get a goal by ID
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a goal
// @Description Applies the edit immediately; if the store rejects it the previous state is kept.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to update goal"
// @Security BearerAuth
// @Router /goals/{id} [patch]
func (h *goalHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// addProgress godoc
// @Summary Add money to a goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   progress body dto.AddGoalProgressRequest true "Amount to add"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to update goal"
// @Security BearerAuth
// @Router /goals/{id}/progress [post]
func (h *goalHandler) addProgress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.AddGoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	goal, err := h.goalService.AddProgress(c.Request.Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to add goal progress")
		return
	}
	if goal.Completed {
		logger.Info("Goal completed", slog.String("goal_id", goal.GoalID))
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Param   id path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete goal")
		return
	}
	c.Status(http.StatusNoContent)
}
