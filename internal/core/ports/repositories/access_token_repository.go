package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/momo_backend/internal/core/domain"
)

// AccessTokenRepository defines data access for bearer token sessions
type AccessTokenRepository interface {
	// Create persists a new access token record
	Create(ctx context.Context, token domain.AccessToken) error

	// FindByID retrieves a token record by its ID (the JWT "jti")
	FindByID(ctx context.Context, tokenID string) (*domain.AccessToken, error)

	// Delete removes a single token record
	Delete(ctx context.Context, tokenID string) error

	// DeleteByUserID removes all token records of a user
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes all token records that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
