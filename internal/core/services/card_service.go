package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/utils"
)

const cardSuffixLength = 4

type cardService struct {
	BaseService
	userRepo portsrepo.UserReader
}

// NewCardService creates a new card service
func NewCardService(userRepo portsrepo.UserReader) portssvc.CardSvc {
	return &cardService{userRepo: userRepo}
}

var _ portssvc.CardSvc = (*cardService)(nil)

// GetCard builds the virtual card of a user. The card number embeds a short
// form of the user ID plus a random suffix and changes on every call.
func (s *cardService) GetCard(ctx context.Context, userID string) (*domain.VirtualCard, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card owner: %w", err)
	}

	suffix, err := utils.GenerateCardSuffix(cardSuffixLength)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate card suffix")
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}

	return &domain.VirtualCard{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Balance:     user.Balance,
		CardNumber:  fmt.Sprintf("CARD-%s-%s", shortID(user.UserID), suffix),
		CreatedAt:   user.CreatedAt,
	}, nil
}

func shortID(id string) string {
	id = strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
