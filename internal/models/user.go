package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a row of the users table.
type User struct {
	UserID      string          `db:"user_id"`
	FirstName   string          `db:"first_name"`
	LastName    string          `db:"last_name"`
	PhoneNumber string          `db:"phone_number"`
	PinHash     string          `db:"pin_hash"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
