package services

import (
	"context"

	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceMutatorSvc moves money. Each call is one atomic unit of work.
type BalanceMutatorSvc interface {
	// Recharge credits the user's balance from an external provider.
	Recharge(ctx context.Context, userID string, amount decimal.Decimal, provider string, externalRef *string) (*domain.MutationResult, error)

	// Transfer moves amount from the sender to the user owning recipientPhone.
	Transfer(ctx context.Context, senderID string, recipientPhone string, amount decimal.Decimal) (*domain.MutationResult, error)
}

// BalanceReaderSvc defines read operations over balances and their history
type BalanceReaderSvc interface {
	// GetBalance returns the user's current balance.
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// GetTransactionsHistory returns recharges, sent and received transfers,
	// newest first.
	GetTransactionsHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

// TransactionSvcFacade combines all balance-related service interfaces
type TransactionSvcFacade interface {
	BalanceMutatorSvc
	BalanceReaderSvc
}
