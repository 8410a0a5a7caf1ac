package mapping

import (
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/models"
)

// ToModelAccessToken converts a domain AccessToken to a model AccessToken
func ToModelAccessToken(d domain.AccessToken) models.AccessToken {
	return models.AccessToken{
		TokenID:   d.TokenID,
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainAccessToken converts a model AccessToken to a domain AccessToken
func ToDomainAccessToken(m models.AccessToken) domain.AccessToken {
	return domain.AccessToken{
		TokenID:   m.TokenID,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
