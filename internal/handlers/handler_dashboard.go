package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
}

func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardSvc) {
	h := &dashboardHandler{dashboardService: ds}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Overview metrics
// @Description Totals, category breakdown, running balance, classified payments and goal progress.
// @Description The monthly series always spans every month.
// @Tags dashboard
// @Produce  json
// @Param   month query string false "Month (YYYY-MM); all data when omitted"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to load dashboard"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.DashboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	dash, err := h.dashboardService.GetDashboard(c.Request.Context(), userID, params.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(dash))
}
