package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recharge is an immutable credit to a user's balance from an external
// payment provider.
type Recharge struct {
	RechargeID  string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Provider    string          `json:"provider"`
	ExternalRef *string         `json:"transaction_id,omitempty"` // Provider-side reference, optional
	CreatedAt   time.Time       `json:"created_at"`
}

// Transfer is an immutable peer-to-peer movement of money between two users.
type Transfer struct {
	TransferID  string          `json:"id"`
	SenderID    string          `json:"sender_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Counterparty is the public identity of the other side of a transfer.
type Counterparty struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// TransferWithParty pairs a transfer with the identity of the user on the
// other side, as seen from the account whose history is being read.
type TransferWithParty struct {
	Transfer
	Party Counterparty
}

// MutationResult is what a successful recharge or transfer hands back.
// Exactly one of Recharge and Transfer is set.
type MutationResult struct {
	NewBalance decimal.Decimal
	Recharge   *Recharge
	Transfer   *Transfer
}
