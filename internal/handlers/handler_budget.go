package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// registerBudgetRoutes registers routes related to budgets.
func registerBudgetRoutes(rg *gin.RouterGroup, bs portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(bs)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:id", h.getBudget)
		budgets.PATCH("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deleteBudget)
		budgets.POST("/:id/reconcile", h.reconcileBudget)
	}
}

// createBudget godoc
// @Summary Create or merge a budget
// @Description Adds a budget for a category and month. An existing budget for the same key absorbs the amounts.
// @Description A non-zero spent amount is also recorded as an expense dated the first of the month.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.CreateBudgetResponse "New budget"
// @Success 200 {object} dto.CreateBudgetResponse "Merged into existing budget"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create budget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	res, err := h.budgetService.CreateBudget(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create budget")
		return
	}

	out := dto.CreateBudgetResponse{
		Budget: dto.ToBudgetResponse(&res.Budget),
		Merged: res.Merged,
	}
	if res.Transaction != nil {
		t := dto.ToTransactionResponse(res.Transaction)
		out.Transaction = &t
	}

	status := http.StatusCreated
	if res.Merged {
		status = http.StatusOK
	}
	logger.Info("Budget saved", slog.String("budget_id", res.Budget.BudgetID), slog.Bool("merged", res.Merged))
	c.JSON(status, out)
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Param   month query string false "Month (YYYY-MM)"
// @Success 200 {array} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list budgets"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetResponse(budgets))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to retrieve budget"
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   id path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to update budget"
// @Security BearerAuth
// @Router /budgets/{id} [patch]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param   id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to delete budget"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// reconcileBudget godoc
// @Summary Recompute a budget's spent amount
// @Description Overwrites the spent amount with the sum of the month's expenses in the budget's category.
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to reconcile budget"
// @Security BearerAuth
// @Router /budgets/{id}/reconcile [post]
func (h *budgetHandler) reconcileBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	budget, err := h.budgetService.ReconcileBudget(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
