package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// ActivityTracker restarts a session's inactivity timer.
type ActivityTracker interface {
	TouchSession(ctx context.Context, sessionID string) (domain.SessionStatus, error)
}

// TrackActivity counts every authenticated request as user activity. It must run after AuthMiddleware.
func TrackActivity(tracker ActivityTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := GetSessionIDFromContext(c); ok {
			if _, err := tracker.TouchSession(c.Request.Context(), sessionID); err != nil {
				GetLoggerFromCtx(c.Request.Context()).Warn("Failed to record session activity",
					slog.String("session_id", sessionID), slog.String("error", err.Error()))
			}
		}
		c.Next()
	}
}
