package dto

import (
	"time"

	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/shopspring/decimal"
)

func ToUserResponse(user interface {
	GetUserID() string
	GetFirstName() string
	GetLastName() string
	GetPhoneNumber() string
	GetBalance() decimal.Decimal
	GetCreatedAt() time.Time
	GetLastUpdatedAt() time.Time
}) UserResponse {
	return UserResponse{
		ID:        user.GetUserID(),
		FirstName: user.GetFirstName(),
		LastName:  user.GetLastName(),
		Phone:     user.GetPhoneNumber(),
		Balance:   utils.FormatAmount(user.GetBalance()),
		CreatedAt: user.GetCreatedAt(),
		UpdatedAt: user.GetLastUpdatedAt(),
	}
}
