package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration, login, sessions and password resets.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	googleOAuth portssvc.GoogleOAuthSvcFacade
	now         func() time.Time
}

func newAuthHandler(as portssvc.AuthSvcFacade, google portssvc.GoogleOAuthSvcFacade) *authHandler {
	return &authHandler{authService: as, googleOAuth: google, now: time.Now}
}

// registerPublicAuthRoutes registers the unauthenticated /auth routes.
func registerPublicAuthRoutes(rg *gin.RouterGroup, h *authHandler) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/password-reset", h.requestPasswordReset)
	rg.POST("/password-reset/complete", h.completePasswordReset)

	google := rg.Group("/google")
	{
		google.GET("/login", h.googleLogin)
		google.POST("/exchange-code", h.googleExchangeCode)
	}
}

// registerSessionControlRoutes registers the session routes that manage inactivity themselves.
// They must not pass through TrackActivity: a status poll is not activity.
func registerSessionControlRoutes(rg *gin.RouterGroup, h *authHandler) {
	rg.GET("/session", h.sessionStatus)
	rg.POST("/session/keepalive", h.keepAlive)
	rg.POST("/logout", h.logout)
}

// registerSessionRoutes registers authenticated /auth routes that count as activity.
func registerSessionRoutes(rg *gin.RouterGroup, h *authHandler) {
	rg.GET("/me", h.me)
}

// register godoc
// @Summary Sign up
// @Description Creates an account with email and password, plus its profile.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   user body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.CurrentUserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to register"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to register")
		return
	}
	c.JSON(http.StatusCreated, dto.CurrentUserResponse{ID: user.UserID, Email: user.Email, Name: user.Name})
}

// login godoc
// @Summary Log in
// @Description Authenticates with email and password and returns a session token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to log in"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	issued, err := h.authService.CreateSession(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(issued))
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Returns the Google consent URL and the state value to verify on return.
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.GoogleLoginResponse
// @Failure 500 {object} map[string]string "Failed to start Google sign-in"
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	state, err := h.googleOAuth.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to start Google sign-in")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginResponse{
		URL:   h.googleOAuth.GetGoogleLoginURL(c.Request.Context(), state),
		State: state,
	})
}

// googleExchangeCode godoc
// @Summary Finish Google sign-in
// @Description Exchanges the authorization code, verifies the ID token and returns a session token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Code or ID token rejected"
// @Failure 503 {object} map[string]string "Google sign-in is not configured"
// @Router /auth/google/exchange-code [post]
func (h *authHandler) googleExchangeCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	identity, err := h.googleOAuth.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, logger, err, "Failed to exchange Google authorization code")
		return
	}
	issued, err := h.authService.CreateExternalSession(c.Request.Context(), *identity)
	if err != nil {
		respondError(c, logger, err, "Failed to sign in with Google")
		return
	}
	logger.Info("Google sign-in completed", slog.String("user_id", issued.User.UserID))
	c.JSON(http.StatusOK, dto.ToLoginResponse(issued))
}

// requestPasswordReset godoc
// @Summary Request a password reset
// @Description Issues a reset token when the email is registered. The response does not reveal whether it is.
// @Tags auth
// @Accept  json
// @Param   request body dto.PasswordResetRequest true "Account email"
// @Success 202 "Accepted"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /auth/password-reset [post]
func (h *authHandler) requestPasswordReset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, logger, err, "Failed to request password reset")
		return
	}
	c.Status(http.StatusAccepted)
}

// completePasswordReset godoc
// @Summary Complete a password reset
// @Description Sets a new password and logs the account out everywhere.
// @Tags auth
// @Accept  json
// @Param   request body dto.CompletePasswordResetRequest true "Token and new password"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /auth/password-reset/complete [post]
func (h *authHandler) completePasswordReset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompletePasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, logger, err, "Failed to reset password")
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionStatus godoc
// @Summary Inactivity status of the current session
// @Description Reports whether the session is in its warning period. Polling this does not count as activity.
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.SessionStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/session [get]
func (h *authHandler) sessionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.authService.SessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, logger, err, "Failed to read session status")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionStatusResponse(status, h.now()))
}

// keepAlive godoc
// @Summary Stay logged in
// @Description Restarts the inactivity timer of the current session.
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.SessionStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/session/keepalive [post]
func (h *authHandler) keepAlive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.authService.TouchSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, logger, err, "Failed to extend session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionStatusResponse(status, h.now()))
}

// logout godoc
// @Summary Log out
// @Tags auth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, logger, err, "Failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// me godoc
// @Summary Current user
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.CurrentUserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, logger, err, "Failed to load current user")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrentUserResponse(user))
}
