package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/models"
	"github.com/SscSPs/momo_backend/internal/utils/mapping"
)

// livePhoneOwner returns the id of the live user holding phone.
func (st *state) livePhoneOwner(phone string) (string, bool) {
	for id, u := range st.users {
		if u.DeletedAt == nil && u.PhoneNumber == phone {
			return id, true
		}
	}
	return "", false
}

func (st *state) liveUser(userID string) (models.User, bool) {
	u, ok := st.users[userID]
	if !ok || u.DeletedAt != nil {
		return models.User{}, false
	}
	return u, true
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	return s.write(ctx, func(st *state) error {
		if _, exists := st.users[user.UserID]; exists {
			return fmt.Errorf("failed to save user: %w", apperrors.ErrDuplicate)
		}
		if _, taken := st.livePhoneOwner(user.PhoneNumber); taken {
			return fmt.Errorf("failed to save user: %w", apperrors.ErrDuplicate)
		}
		st.users[user.UserID] = mapping.ToModelUser(user)
		return nil
	})
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var found models.User
	err := s.read(ctx, func(st *state) error {
		m, ok := st.liveUser(userID)
		if !ok {
			return apperrors.ErrNotFound
		}
		found = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(found)
	return &u, nil
}

func (s *Store) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var found models.User
	err := s.read(ctx, func(st *state) error {
		id, ok := st.livePhoneOwner(phone)
		if !ok {
			return apperrors.ErrNotFound
		}
		found = st.users[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(found)
	return &u, nil
}

func (s *Store) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var live []models.User
	_ = s.read(ctx, func(st *state) error {
		live = make([]models.User, 0, len(st.users))
		for _, u := range st.users {
			if u.DeletedAt == nil {
				live = append(live, u)
			}
		}
		return nil
	})

	sort.Slice(live, func(i, j int) bool {
		if !live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].CreatedAt.After(live[j].CreatedAt)
		}
		return live[i].UserID < live[j].UserID
	})

	if offset >= len(live) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(live) {
		end = len(live)
	}
	return mapping.ToDomainUserSlice(live[offset:end]), nil
}

// UpdateUser writes profile fields only; the stored balance is kept.
func (s *Store) UpdateUser(ctx context.Context, user domain.User) error {
	return s.write(ctx, func(st *state) error {
		current, ok := st.liveUser(user.UserID)
		if !ok {
			return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
		}
		if owner, taken := st.livePhoneOwner(user.PhoneNumber); taken && owner != user.UserID {
			return fmt.Errorf("failed to execute update user query: %w", apperrors.ErrDuplicate)
		}
		current.FirstName = user.FirstName
		current.LastName = user.LastName
		current.PhoneNumber = user.PhoneNumber
		current.PinHash = user.PinHash
		current.LastUpdatedAt = user.LastUpdatedAt
		st.users[user.UserID] = current
		return nil
	})
}

func (s *Store) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	return s.write(ctx, func(st *state) error {
		current, ok := st.liveUser(userID)
		if !ok {
			return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
		}
		current.DeletedAt = &deletedAt
		current.LastUpdatedAt = deletedAt
		st.users[userID] = current
		return nil
	})
}
