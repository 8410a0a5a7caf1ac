package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/momo_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific live user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByPhone retrieves a live user by phone number.
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)

	// FindUsers retrieves a paginated list of live users, newest first.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. Returns ErrDuplicate if the phone is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates a user's profile fields (names, phone, PIN hash).
	// The balance is never written through this method.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
