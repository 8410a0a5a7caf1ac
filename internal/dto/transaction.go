package dto

import (
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// HistoryDateLayout is how history entry timestamps are rendered.
const HistoryDateLayout = "2006-01-02 15:04"

// RechargeRequest defines the data needed to credit the caller's balance.
type RechargeRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"money"`
	Provider      string          `json:"provider" binding:"required,max=100"`
	TransactionID *string         `json:"transaction_id" binding:"omitempty,max=255"`
}

// TransferRequest defines the data needed to send money to another user.
type TransferRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"money"`
	RecipientPhone string          `json:"recipient_phone" binding:"required,max=20"`
}

// BalanceMutationResponse is returned after a successful recharge or transfer.
type BalanceMutationResponse struct {
	Message    string `json:"message"`
	NewBalance string `json:"new_balance"`
}

// BalanceResponse carries the caller's current balance.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// CounterpartyResponse identifies the other side of a transfer.
type CounterpartyResponse struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// HistoryEntryResponse is one line of the transaction history. Recharges
// carry provider (and transaction_id when known), sent transfers carry "to"
// and received transfers carry "from".
type HistoryEntryResponse struct {
	Type          string                `json:"type"`
	Amount        string                `json:"amount"`
	Provider      string                `json:"provider,omitempty"`
	TransactionID *string               `json:"transaction_id,omitempty"`
	To            *CounterpartyResponse `json:"to,omitempty"`
	From          *CounterpartyResponse `json:"from,omitempty"`
	Date          string                `json:"date"`
}

// ListTransactionsResponse wraps the transaction history.
type ListTransactionsResponse struct {
	Transactions []HistoryEntryResponse `json:"transactions"`
}

// ToHistoryEntryResponse converts a domain.HistoryEntry to its DTO.
func ToHistoryEntryResponse(e domain.HistoryEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		Type:   string(e.Type),
		Amount: utils.FormatAmount(e.Amount),
		Date:   e.OccurredAt.Format(HistoryDateLayout),
	}
	var party *CounterpartyResponse
	if e.Counterparty != nil {
		party = &CounterpartyResponse{
			FirstName:   e.Counterparty.FirstName,
			LastName:    e.Counterparty.LastName,
			PhoneNumber: e.Counterparty.PhoneNumber,
		}
	}
	switch e.Type {
	case domain.HistoryRecharge:
		resp.Provider = e.Provider
		resp.TransactionID = e.ExternalRef
	case domain.HistorySent:
		resp.To = party
	case domain.HistoryReceived:
		resp.From = party
	}
	return resp
}

// ToListTransactionsResponse converts history entries to the response DTO.
// An empty history becomes an empty JSON array, never null.
func ToListTransactionsResponse(entries []domain.HistoryEntry) ListTransactionsResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToHistoryEntryResponse(e)
	}
	return ListTransactionsResponse{Transactions: out}
}
