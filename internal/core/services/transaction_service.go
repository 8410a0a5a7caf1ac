package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/platform/events"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgRechargeFailed = "recharge failed"
	msgTransferFailed = "transfer failed"
	msgInvalidAmount  = "amount must be greater than zero and at most 9999999999999.99, with at most two decimals"
	msgBalanceLimit   = "balance would exceed the maximum of 9999999999999.99"
)

// transactionService moves money. Every mutation writes an immutable record
// and adjusts the balance(s) inside one unit of work.
type transactionService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	userRepo   portsrepo.UserReader
	txManager  portsrepo.TransactionManager
	publisher  events.Publisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithClock overrides the clock used to timestamp ledger records.
func WithClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.clock = clock
	}
}

// WithEventPublisher publishes committed mutations through p.
func WithEventPublisher(p events.Publisher) TransactionServiceOption {
	return func(s *transactionService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	userRepo portsrepo.UserReader,
	txManager portsrepo.TransactionManager,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		publisher:  &events.NoopPublisher{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) Recharge(ctx context.Context, userID string, amount decimal.Decimal, provider string, externalRef *string) (*domain.MutationResult, error) {
	provider = strings.TrimSpace(provider)
	if !utils.IsValidAmount(amount) {
		observeMutation(opRecharge, outcomeRejected)
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, msgInvalidAmount, nil)
	}
	if provider == "" {
		observeMutation(opRecharge, outcomeRejected)
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, "provider is required", nil)
	}

	recharge := domain.Recharge{
		RechargeID:  uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Provider:    provider,
		ExternalRef: externalRef,
		CreatedAt:   s.Now(),
	}

	var newBalance decimal.Decimal
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ledgerRepo.LockBalances(ctx, []string{userID}); err != nil {
			return err
		}
		if err := s.ledgerRepo.InsertRecharge(ctx, recharge); err != nil {
			return err
		}
		balance, err := s.ledgerRepo.AdjustBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			observeMutation(opRecharge, outcomeNotFound)
			return nil, apperrors.NewAppError(http.StatusNotFound, "user not found", err)
		}
		if errors.Is(err, apperrors.ErrValidation) {
			observeMutation(opRecharge, outcomeRejected)
			return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, msgBalanceLimit, err)
		}
		observeMutation(opRecharge, outcomeError)
		s.LogError(ctx, err, "Recharge rolled back",
			slog.String("user_id", userID),
			slog.String("amount", amount.String()),
			slog.String("provider", provider))
		return nil, apperrors.Persistence(msgRechargeFailed, err)
	}

	observeMutation(opRecharge, outcomeSuccess)
	balanceMutationAmount.WithLabelValues(opRecharge).Add(amount.InexactFloat64())
	s.LogInfo(ctx, "Recharge committed",
		slog.String("recharge_id", recharge.RechargeID),
		slog.String("user_id", userID),
		slog.String("amount", amount.String()))

	s.publish(ctx, events.TransactionEvent{
		Type:        events.TypeRechargeCompleted,
		ReferenceID: recharge.RechargeID,
		UserID:      userID,
		Amount:      utils.FormatAmount(amount),
		Provider:    provider,
		NewBalance:  utils.FormatAmount(newBalance),
		OccurredAt:  recharge.CreatedAt,
	})

	return &domain.MutationResult{NewBalance: newBalance, Recharge: &recharge}, nil
}

func (s *transactionService) Transfer(ctx context.Context, senderID string, recipientPhone string, amount decimal.Decimal) (*domain.MutationResult, error) {
	if !utils.IsValidAmount(amount) {
		observeMutation(opTransfer, outcomeRejected)
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, msgInvalidAmount, nil)
	}

	recipient, err := s.userRepo.FindUserByPhone(ctx, strings.TrimSpace(recipientPhone))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			observeMutation(opTransfer, outcomeNotFound)
			return nil, apperrors.NewAppError(http.StatusNotFound, "recipient not found", err)
		}
		observeMutation(opTransfer, outcomeError)
		s.LogError(ctx, err, "Failed to resolve transfer recipient")
		return nil, apperrors.Persistence(msgTransferFailed, err)
	}

	// Checked before any balance is read: a self-transfer fails even when
	// the balance could not cover it.
	if recipient.UserID == senderID {
		observeMutation(opTransfer, outcomeRejected)
		return nil, apperrors.ErrSelfTransfer
	}

	transfer := domain.Transfer{
		TransferID:  uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipient.UserID,
		Amount:      amount,
		CreatedAt:   s.Now(),
	}

	var newBalance decimal.Decimal
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		balances, err := s.ledgerRepo.LockBalances(ctx, []string{senderID, recipient.UserID})
		if err != nil {
			return err
		}
		if balances[senderID].LessThan(amount) {
			return apperrors.ErrInsufficientBalance
		}
		if err := s.ledgerRepo.InsertTransfer(ctx, transfer); err != nil {
			return err
		}
		balance, err := s.ledgerRepo.AdjustBalance(ctx, senderID, amount.Neg())
		if err != nil {
			return err
		}
		if _, err := s.ledgerRepo.AdjustBalance(ctx, recipient.UserID, amount); err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		switch {
		case apperrors.IsBusinessRule(err):
			observeMutation(opTransfer, outcomeRejected)
			s.LogInfo(ctx, "Transfer rejected",
				slog.String("sender_id", senderID),
				slog.String("reason", err.Error()))
			if errors.Is(err, apperrors.ErrInsufficientBalance) {
				return nil, apperrors.ErrInsufficientBalance
			}
			return nil, apperrors.ErrSelfTransfer
		case errors.Is(err, apperrors.ErrNotFound):
			observeMutation(opTransfer, outcomeNotFound)
			return nil, apperrors.NewAppError(http.StatusNotFound, "user not found", err)
		case errors.Is(err, apperrors.ErrValidation):
			observeMutation(opTransfer, outcomeRejected)
			return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, msgBalanceLimit, err)
		default:
			observeMutation(opTransfer, outcomeError)
			s.LogError(ctx, err, "Transfer rolled back",
				slog.String("sender_id", senderID),
				slog.String("recipient_id", recipient.UserID),
				slog.String("amount", amount.String()))
			return nil, apperrors.Persistence(msgTransferFailed, err)
		}
	}

	observeMutation(opTransfer, outcomeSuccess)
	balanceMutationAmount.WithLabelValues(opTransfer).Add(amount.InexactFloat64())
	s.LogInfo(ctx, "Transfer committed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("sender_id", senderID),
		slog.String("recipient_id", recipient.UserID),
		slog.String("amount", amount.String()))

	s.publish(ctx, events.TransactionEvent{
		Type:        events.TypeTransferCompleted,
		ReferenceID: transfer.TransferID,
		UserID:      senderID,
		RecipientID: recipient.UserID,
		Amount:      utils.FormatAmount(amount),
		NewBalance:  utils.FormatAmount(newBalance),
		OccurredAt:  transfer.CreatedAt,
	})

	return &domain.MutationResult{NewBalance: newBalance, Transfer: &transfer}, nil
}

func (s *transactionService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// GetTransactionsHistory is not isolated from concurrent mutations; a
// transfer committing between the three reads may show on one side only.
func (s *transactionService) GetTransactionsHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load history owner: %w", err)
	}

	recharges, err := s.ledgerRepo.ListRechargesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recharges", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list recharges: %w", err)
	}
	sent, err := s.ledgerRepo.ListTransfersBySender(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sent transfers", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list sent transfers: %w", err)
	}
	received, err := s.ledgerRepo.ListTransfersByRecipient(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list received transfers", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list received transfers: %w", err)
	}

	return domain.BuildHistory(recharges, sent, received), nil
}

// publish never fails the caller: the mutation is already committed.
func (s *transactionService) publish(ctx context.Context, event events.TransactionEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction event",
			slog.String("type", event.Type),
			slog.String("reference_id", event.ReferenceID))
	}
}
