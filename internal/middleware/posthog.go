package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedRoutes are polled by the client and would drown real usage events.
var untrackedRoutes = map[string]bool{
	"/health":              true,
	"/api/v1/auth/session": true,
}

// PosthogMiddleware reports each successful authenticated request as an event named after its
// route template, e.g. "POST /api/v1/budgets/:id/reconcile" becomes "budgets_:id_reconcile_post".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if route == "" || untrackedRoutes[route] || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		if sessionID, ok := GetSessionIDFromContext(c); ok {
			props["session_id"] = sessionID
		}
		if month := c.Query("month"); month != "" {
			props["month"] = month
		}
		posthogClient.Enqueue(userID, eventName(c.Request.Method, route), props)
	}
}

func eventName(method, route string) string {
	name := strings.TrimPrefix(route, "/api/v1/")
	name = strings.ReplaceAll(strings.Trim(name, "/"), "/", "_")
	return name + "_" + strings.ToLower(method)
}
