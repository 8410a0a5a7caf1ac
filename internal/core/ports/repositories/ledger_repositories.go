package repositories

import (
	"context"

	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceStore reads and mutates per-user balances.
type BalanceStore interface {
	// GetBalance returns the current balance. ErrNotFound if the user is absent.
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// LockBalances locks the balance rows of the given users, in ID order,
	// for the rest of the enclosing unit of work and returns their balances.
	// ErrNotFound if any user is absent.
	LockBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error)

	// AdjustBalance applies balance += delta as a single conditional update
	// and returns the new balance. ErrInsufficientBalance if the result would
	// be negative, ErrNotFound if the user is absent.
	AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error)
}

// LedgerWriter appends immutable money-movement records.
type LedgerWriter interface {
	InsertRecharge(ctx context.Context, recharge domain.Recharge) error
	InsertTransfer(ctx context.Context, transfer domain.Transfer) error
}

// HistoryReader lists the records a transaction history is built from.
type HistoryReader interface {
	ListRechargesByUser(ctx context.Context, userID string) ([]domain.Recharge, error)

	// ListTransfersBySender returns transfers sent by the user, each paired
	// with the recipient's identity.
	ListTransfersBySender(ctx context.Context, userID string) ([]domain.TransferWithParty, error)

	// ListTransfersByRecipient returns transfers received by the user, each
	// paired with the sender's identity.
	ListTransfersByRecipient(ctx context.Context, userID string) ([]domain.TransferWithParty, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	BalanceStore
	LedgerWriter
	HistoryReader
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
