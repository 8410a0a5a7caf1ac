package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	"github.com/SscSPs/momo_backend/internal/models"
	"github.com/SscSPs/momo_backend/internal/utils"
	"github.com/SscSPs/momo_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

func (s *Store) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := s.read(ctx, func(st *state) error {
		u, ok := st.liveUser(userID)
		if !ok {
			return apperrors.ErrNotFound
		}
		balance = u.Balance
		return nil
	})
	return balance, err
}

// LockBalances only reads: the unit of work already excludes every other
// writer.
func (s *Store) LockBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(userIDs))
	err := s.read(ctx, func(st *state) error {
		for _, id := range userIDs {
			u, ok := st.liveUser(id)
			if !ok {
				return fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
			}
			balances[id] = u.Balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *Store) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := s.write(ctx, func(st *state) error {
		u, ok := st.liveUser(userID)
		if !ok {
			return apperrors.ErrNotFound
		}
		next := u.Balance.Add(delta)
		if next.IsNegative() {
			return apperrors.ErrInsufficientBalance
		}
		if next.GreaterThan(utils.MaxAmount) {
			return fmt.Errorf("balance of %s would exceed %s: %w", userID, utils.MaxAmount, apperrors.ErrValidation)
		}
		u.Balance = next
		u.LastUpdatedAt = s.now()
		st.users[userID] = u
		newBalance = next
		return nil
	})
	return newBalance, err
}

func (s *Store) InsertRecharge(ctx context.Context, recharge domain.Recharge) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.users[recharge.UserID]; !ok {
			return fmt.Errorf("failed to insert recharge: %w", apperrors.ErrNotFound)
		}
		st.recharges = append(st.recharges, mapping.ToModelRecharge(recharge))
		return nil
	})
}

func (s *Store) InsertTransfer(ctx context.Context, transfer domain.Transfer) error {
	return s.write(ctx, func(st *state) error {
		_, senderOK := st.users[transfer.SenderID]
		_, recipientOK := st.users[transfer.RecipientID]
		if !senderOK || !recipientOK {
			return fmt.Errorf("failed to insert transfer: %w", apperrors.ErrNotFound)
		}
		st.transfers = append(st.transfers, mapping.ToModelTransfer(transfer))
		return nil
	})
}

func (s *Store) ListRechargesByUser(ctx context.Context, userID string) ([]domain.Recharge, error) {
	out := []domain.Recharge{}
	err := s.read(ctx, func(st *state) error {
		for _, r := range st.recharges {
			if r.UserID == userID {
				out = append(out, mapping.ToDomainRecharge(r))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (s *Store) ListTransfersBySender(ctx context.Context, userID string) ([]domain.TransferWithParty, error) {
	return s.listTransfers(ctx, func(t models.Transfer) (bool, string) {
		return t.SenderID == userID, t.RecipientID
	})
}

func (s *Store) ListTransfersByRecipient(ctx context.Context, userID string) ([]domain.TransferWithParty, error) {
	return s.listTransfers(ctx, func(t models.Transfer) (bool, string) {
		return t.RecipientID == userID, t.SenderID
	})
}

// listTransfers keeps the transfers match accepts, joined with the party it
// names. Deleted parties are still joined.
func (s *Store) listTransfers(ctx context.Context, match func(models.Transfer) (bool, string)) ([]domain.TransferWithParty, error) {
	out := []domain.TransferWithParty{}
	err := s.read(ctx, func(st *state) error {
		for _, t := range st.transfers {
			ok, partyID := match(t)
			if !ok {
				continue
			}
			party := st.users[partyID]
			out = append(out, mapping.ToDomainTransferWithParty(models.TransferWithParty{
				Transfer:       t,
				PartyFirstName: party.FirstName,
				PartyLastName:  party.LastName,
				PartyPhone:     party.PhoneNumber,
			}))
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
