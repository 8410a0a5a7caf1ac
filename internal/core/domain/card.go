package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VirtualCard is the card view of a user's account. The card number is
// generated per request and is not persisted.
type VirtualCard struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Balance     decimal.Decimal
	CardNumber  string
	CreatedAt   time.Time
}
