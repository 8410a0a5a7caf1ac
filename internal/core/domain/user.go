package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a balance-holding identity, keyed by phone number.
type User struct {
	UserID      string          `json:"id"` // Primary Key (UUID)
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone"`
	PinHash     string          `json:"-"` // bcrypt hash of the 4-digit PIN
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
	DeletedAt *time.Time `json:"-"` // Used for soft delete
}

func (u *User) GetUserID() string           { return u.UserID }
func (u *User) GetFirstName() string        { return u.FirstName }
func (u *User) GetLastName() string         { return u.LastName }
func (u *User) GetPhoneNumber() string      { return u.PhoneNumber }
func (u *User) GetBalance() decimal.Decimal { return u.Balance }
func (u *User) GetCreatedAt() time.Time     { return u.CreatedAt }
func (u *User) GetLastUpdatedAt() time.Time { return u.LastUpdatedAt }

// Counterparty returns the public identity shown to the other side of a transfer.
func (u *User) Counterparty() Counterparty {
	return Counterparty{FirstName: u.FirstName, LastName: u.LastName, PhoneNumber: u.PhoneNumber}
}
