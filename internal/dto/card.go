package dto

import (
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/utils"
)

// CardDateLayout is how the card creation date is rendered.
const CardDateLayout = "2006-01-02"

// CardResponse is the virtual card view of the caller's account.
type CardResponse struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Balance     string `json:"balance"`
	CardNumber  string `json:"card_number"`
	CreatedAt   string `json:"created_at"`
}

// CardEnvelope wraps the card under a "user" key.
type CardEnvelope struct {
	User CardResponse `json:"user"`
}

// ToCardResponse converts a domain.VirtualCard to its DTO.
func ToCardResponse(card *domain.VirtualCard) CardEnvelope {
	return CardEnvelope{User: CardResponse{
		FirstName:   card.FirstName,
		LastName:    card.LastName,
		PhoneNumber: card.PhoneNumber,
		Balance:     utils.FormatAmount(card.Balance),
		CardNumber:  card.CardNumber,
		CreatedAt:   card.CreatedAt.Format(CardDateLayout),
	}}
}
