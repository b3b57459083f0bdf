package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/finance_tracker/cmd/docs"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// posthogClient may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authLimiter, err := middleware.NewMemoryLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT %q: %w", cfg.AuthRateLimit, err)
	}
	apiLimiter, err := middleware.NewMemoryLimiter(cfg.APIRateLimit)
	if err != nil {
		return fmt.Errorf("invalid API_RATE_LIMIT %q: %w", cfg.APIRateLimit, err)
	}

	auth := newAuthHandler(services.Auth, services.GoogleOAuth)

	// Public authentication routes
	registerPublicAuthRoutes(r.Group("/api/v1/auth", middleware.RateLimit(authLimiter)), auth)

	// Everything below requires a live session
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret, services.Auth),
		middleware.RateLimit(apiLimiter),
		middleware.PosthogMiddleware(posthogClient),
	)

	// Polling the status must not keep the session alive
	registerSessionControlRoutes(v1.Group("/auth"), auth)

	active := v1.Group("", middleware.TrackActivity(services.Auth))
	registerSessionRoutes(active.Group("/auth"), auth)
	registerTransactionRoutes(active, services.Transaction)
	registerBudgetRoutes(active, services.Budget)
	registerGoalRoutes(active, services.Goal)
	registerProfileRoutes(active, services.Profile, services.Auth)
	registerDashboardRoutes(active, services.Dashboard)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
