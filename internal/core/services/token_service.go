package services

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/utils"
)

// tokenService signs session JWTs with the configured secret and issuer.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateSessionToken creates a JWT for the given user and session.
func (s *tokenService) GenerateSessionToken(ctx context.Context, userID string, sessionID string, expiresAt time.Time) (string, error) {
	return utils.GenerateSessionJWT(userID, sessionID, s.cfg.JWTSecret, expiresAt, s.cfg.JWTIssuer)
}
