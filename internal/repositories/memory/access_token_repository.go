package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/models"
	"github.com/SscSPs/momo_backend/internal/utils/mapping"
)

func (s *Store) Create(ctx context.Context, token domain.AccessToken) error {
	return s.write(ctx, func(st *state) error {
		if _, exists := st.tokens[token.TokenID]; exists {
			return fmt.Errorf("failed to create access token: %w", apperrors.ErrDuplicate)
		}
		st.tokens[token.TokenID] = mapping.ToModelAccessToken(token)
		return nil
	})
}

func (s *Store) FindByID(ctx context.Context, tokenID string) (*domain.AccessToken, error) {
	var found models.AccessToken
	err := s.read(ctx, func(st *state) error {
		m, ok := st.tokens[tokenID]
		if !ok {
			return apperrors.ErrNotFound
		}
		found = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	token := mapping.ToDomainAccessToken(found)
	return &token, nil
}

func (s *Store) Delete(ctx context.Context, tokenID string) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.tokens[tokenID]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.tokens, tokenID)
		return nil
	})
}

func (s *Store) DeleteByUserID(ctx context.Context, userID string) error {
	return s.write(ctx, func(st *state) error {
		for id, t := range st.tokens {
			if t.UserID == userID {
				delete(st.tokens, id)
			}
		}
		return nil
	})
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) error {
		for id, t := range st.tokens {
			if t.ExpiresAt.Before(before) {
				delete(st.tokens, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
