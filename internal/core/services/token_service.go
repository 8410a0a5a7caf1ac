package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/platform/config"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/google/uuid"
)

// tokenService issues JWT access tokens backed by a session record, so that
// a token can be revoked before it expires.
type tokenService struct {
	BaseService
	cfg       *config.Config
	tokenRepo portsrepo.AccessTokenRepository
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, tokenRepo portsrepo.AccessTokenRepository) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:       cfg,
		tokenRepo: tokenRepo,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// IssueToken creates a new JWT access token for the given user.
func (s *tokenService) IssueToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	now := s.Now()
	record := domain.AccessToken{
		TokenID:   uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: now.Add(s.cfg.JWTExpiryDuration),
		CreatedAt: now,
	}

	signed, err := utils.GenerateJWT(user.UserID, record.TokenID, s.cfg.JWTSecret, now, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to store access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("failed to store access token: %w", err)
	}
	return signed, record.ExpiresAt, nil
}

// ValidateToken checks the signature and claims, then that the session still
// exists and belongs to the token's subject.
func (s *tokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.AccessToken, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no session", apperrors.ErrUnauthorized)
	}

	record, err := s.tokenRepo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: session revoked", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if record.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: session subject mismatch", apperrors.ErrUnauthorized)
	}
	if record.ExpiresAt.Before(s.Now()) {
		return nil, fmt.Errorf("%w: session expired", apperrors.ErrUnauthorized)
	}
	return record, nil
}

// RevokeToken deletes a session. Revoking an unknown session is not an error.
func (s *tokenService) RevokeToken(ctx context.Context, tokenID string) error {
	if err := s.tokenRepo.Delete(ctx, tokenID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to revoke access token")
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (s *tokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired access tokens: %w", err)
	}
	return n, nil
}
