package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recharge is a row of the recharges table.
type Recharge struct {
	RechargeID  string          `db:"recharge_id"`
	UserID      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Provider    string          `db:"provider"`
	ExternalRef *string         `db:"external_ref"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Transfer is a row of the transfers table.
type Transfer struct {
	TransferID  string          `db:"transfer_id"`
	SenderID    string          `db:"sender_id"`
	RecipientID string          `db:"recipient_id"`
	Amount      decimal.Decimal `db:"amount"`
	CreatedAt   time.Time       `db:"created_at"`
}

// TransferWithParty is a transfer joined with the other party's identity.
type TransferWithParty struct {
	Transfer
	PartyFirstName string `db:"party_first_name"`
	PartyLastName  string `db:"party_last_name"`
	PartyPhone     string `db:"party_phone_number"`
}
