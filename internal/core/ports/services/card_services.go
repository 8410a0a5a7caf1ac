package services

import (
	"context"

	"github.com/SscSPs/momo_backend/internal/core/domain"
)

// CardSvc exposes the virtual card view of an account.
type CardSvc interface {
	GetCard(ctx context.Context, userID string) (*domain.VirtualCard, error)
}
