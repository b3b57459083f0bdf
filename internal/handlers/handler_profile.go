package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for form boundaries and headers around an avatar.
const multipartOverhead = 1 << 20

// profileHandler handles HTTP requests related to the current user's profile.
type profileHandler struct {
	profileService portssvc.ProfileSvcFacade
	identity       portssvc.IdentitySvc
}

func registerProfileRoutes(rg *gin.RouterGroup, ps portssvc.ProfileSvcFacade, identity portssvc.IdentitySvc) {
	h := &profileHandler{profileService: ps, identity: identity}

	profile := rg.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.PATCH("", h.updateProfile)
		profile.POST("/avatar", h.uploadAvatar)
	}
}

// getProfile godoc
// @Summary Get the current user's profile
// @Description Returns the profile, creating one from the account details if none exists yet.
// @Tags profile
// @Produce  json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to load profile"
// @Security BearerAuth
// @Router /profile [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.identity.GetCurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, logger, err, "Failed to load current user")
		return
	}
	profile, err := h.profileService.GetOrCreateProfile(c.Request.Context(), *user)
	if err != nil {
		respondError(c, logger, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

// updateProfile godoc
// @Summary Update the current user's profile
// @Description The email address cannot be changed.
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} map[string]string "Invalid input or email change attempted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 500 {object} map[string]string "Failed to update profile"
// @Security BearerAuth
// @Router /profile [patch]
func (h *profileHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request format")
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

// uploadAvatar godoc
// @Summary Upload a profile picture
// @Tags profile
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "JPEG, PNG, GIF or WebP image up to 5 MiB"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} map[string]string "Missing, oversized or unsupported file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Avatar uploads are not configured"
// @Failure 500 {object} map[string]string "Failed to upload avatar"
// @Security BearerAuth
// @Router /profile/avatar [post]
func (h *profileHandler) uploadAvatar(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAvatarSize+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		bindError(c, logger, err, "avatar upload")
		return
	}
	file, err := header.Open()
	if err != nil {
		bindError(c, logger, err, "avatar upload")
		return
	}
	defer file.Close()

	contentType, body, err := sniffContentType(file)
	if err != nil {
		bindError(c, logger, err, "avatar upload")
		return
	}
	if declared := header.Header.Get("Content-Type"); declared != contentType {
		logger.Debug("Avatar content type differs from declared", slog.String("declared", declared), slog.String("detected", contentType))
	}

	profile, err := h.profileService.UploadAvatar(c.Request.Context(), userID, body, header.Size, contentType)
	if err != nil {
		respondError(c, logger, err, "Failed to upload avatar")
		return
	}

	logger.Info("Avatar uploaded", slog.Int64("size", header.Size))
	c.JSON(http.StatusOK, dto.ToProfileResponse(profile))
}

// sniffContentType detects the media type from the first 512 bytes of r and returns a
// reader that still yields the whole content.
func sniffContentType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}
