package services

import (
	"context"
	"time"

	"github.com/SscSPs/momo_backend/internal/core/domain"
)

// TokenValidator resolves a bearer token to its live session record.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.AccessToken, error)
}

// TokenSvcFacade defines the interface for bearer token management.
type TokenSvcFacade interface {
	TokenValidator

	// IssueToken signs a new access token for the user and records it.
	IssueToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// RevokeToken deletes a single session (logout).
	RevokeToken(ctx context.Context, tokenID string) error

	// PurgeExpired deletes session records that have expired.
	PurgeExpired(ctx context.Context) (int64, error)
}
