package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgPhoneTaken         = "The phone has already been taken."
	msgInvalidCredentials = "Invalid phone number or PIN."
)

type userService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryFacade
	tokenRepo portsrepo.AccessTokenRepository
	txManager portsrepo.TransactionManager
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithUserClock overrides the clock used for audit timestamps.
func WithUserClock(clock func() time.Time) UserServiceOption {
	return func(s *userService) {
		s.clock = clock
	}
}

// NewUserService creates a new user service
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	tokenRepo portsrepo.AccessTokenRepository,
	txManager portsrepo.TransactionManager,
	options ...UserServiceOption,
) portssvc.UserSvcFacade {
	svc := &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		txManager: txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	pinHash, err := utils.HashPin(req.Pin)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash PIN")
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	now := s.Now()
	user := domain.User{
		UserID:      uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.Phone),
		PinHash:     pinHash,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(http.StatusConflict, msgPhoneTaken, err)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, phone, pin string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Login attempt for unknown phone")
			return nil, apperrors.NewAppError(http.StatusUnauthorized, msgInvalidCredentials, nil)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if !utils.CheckPinHash(pin, user.PinHash) {
		s.LogWarn(ctx, "Login attempt with wrong PIN", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, msgInvalidCredentials, nil)
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.NewAppError(http.StatusForbidden, "You can only update your own account.", nil)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}

	changed := false
	if req.FirstName != nil {
		if v := strings.TrimSpace(*req.FirstName); v != user.FirstName {
			user.FirstName = v
			changed = true
		}
	}
	if req.LastName != nil {
		if v := strings.TrimSpace(*req.LastName); v != user.LastName {
			user.LastName = v
			changed = true
		}
	}
	if req.Phone != nil {
		if v := strings.TrimSpace(*req.Phone); v != user.PhoneNumber {
			user.PhoneNumber = v
			changed = true
		}
	}
	if req.Pin != nil && !utils.CheckPinHash(*req.Pin, user.PinHash) {
		pinHash, err := utils.HashPin(*req.Pin)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash PIN")
			return nil, fmt.Errorf("failed to hash pin: %w", err)
		}
		user.PinHash = pinHash
		changed = true
	}

	if !changed {
		return user, nil
	}

	user.LastUpdatedAt = s.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(http.StatusConflict, msgPhoneTaken, err)
		}
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteUser soft-deletes the account and revokes its sessions in one unit
// of work. Ledger records are kept.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return apperrors.NewAppError(http.StatusForbidden, "You can only delete your own account.", nil)
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.MarkUserDeleted(ctx, userID, s.Now()); err != nil {
			return err
		}
		return s.tokenRepo.DeleteByUserID(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}
