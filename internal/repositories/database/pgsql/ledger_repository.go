package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	"github.com/SscSPs/momo_backend/internal/models"
	"github.com/SscSPs/momo_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository stores balances (on the users table) together with the
// immutable recharge and transfer records.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(db *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const (
	lockBalancesQuery = `
		SELECT user_id, balance
		FROM users
		WHERE user_id = ANY($1) AND deleted_at IS NULL
		ORDER BY user_id
		FOR UPDATE;
	`

	adjustBalanceQuery = `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL AND balance + $2 >= 0
		RETURNING balance;
	`

	insertRechargeQuery = `
		INSERT INTO recharges (recharge_id, user_id, amount, provider, external_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	insertTransferQuery = `
		INSERT INTO transfers (transfer_id, sender_id, recipient_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	listRechargesQuery = `
		SELECT recharge_id, user_id, amount, provider, external_ref, created_at
		FROM recharges
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	// Both parties are joined without the deleted_at filter: history keeps
	// showing who a deleted user exchanged money with.
	listSentTransfersQuery = `
		SELECT t.transfer_id, t.sender_id, t.recipient_id, t.amount, t.created_at,
		       u.first_name, u.last_name, u.phone_number
		FROM transfers t
		JOIN users u ON u.user_id = t.recipient_id
		WHERE t.sender_id = $1
		ORDER BY t.created_at DESC;
	`

	listReceivedTransfersQuery = `
		SELECT t.transfer_id, t.sender_id, t.recipient_id, t.amount, t.created_at,
		       u.first_name, u.last_name, u.phone_number
		FROM transfers t
		JOIN users u ON u.user_id = t.sender_id
		WHERE t.recipient_id = $1
		ORDER BY t.created_at DESC;
	`
)

func (r *PgxLedgerRepository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT balance FROM users WHERE user_id = $1 AND deleted_at IS NULL;`, userID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, translateError(err, "failed to get balance")
	}
	return balance, nil
}

// LockBalances must run inside WithinTransaction; outside of it the row
// locks are released as soon as the statement completes.
func (r *PgxLedgerRepository) LockBalances(ctx context.Context, userIDs []string) (map[string]decimal.Decimal, error) {
	ids := uniqueSorted(userIDs)
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	rows, err := r.conn(ctx).Query(ctx, lockBalancesQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal, len(ids))
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan locked balance row: %w", err)
		}
		balances[id] = balance
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating locked balance rows: %w", rows.Err())
	}

	for _, id := range ids {
		if _, ok := balances[id]; !ok {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return balances, nil
}

func (r *PgxLedgerRepository) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, adjustBalanceQuery, userID, delta).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, translateError(err, "failed to adjust balance")
	}

	// No row updated: either the user is gone or the guard refused the update.
	if _, err := r.GetBalance(ctx, userID); err != nil {
		return decimal.Zero, err
	}
	return decimal.Zero, apperrors.ErrInsufficientBalance
}

func (r *PgxLedgerRepository) InsertRecharge(ctx context.Context, recharge domain.Recharge) error {
	m := mapping.ToModelRecharge(recharge)
	_, err := r.conn(ctx).Exec(ctx, insertRechargeQuery,
		m.RechargeID, m.UserID, m.Amount, m.Provider, m.ExternalRef, m.CreatedAt)
	if err != nil {
		return translateError(err, "failed to insert recharge")
	}
	return nil
}

func (r *PgxLedgerRepository) InsertTransfer(ctx context.Context, transfer domain.Transfer) error {
	m := mapping.ToModelTransfer(transfer)
	_, err := r.conn(ctx).Exec(ctx, insertTransferQuery,
		m.TransferID, m.SenderID, m.RecipientID, m.Amount, m.CreatedAt)
	if err != nil {
		return translateError(err, "failed to insert transfer")
	}
	return nil
}

func (r *PgxLedgerRepository) ListRechargesByUser(ctx context.Context, userID string) ([]domain.Recharge, error) {
	rows, err := r.conn(ctx).Query(ctx, listRechargesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recharges: %w", err)
	}
	defer rows.Close()

	recharges := []domain.Recharge{}
	for rows.Next() {
		var m models.Recharge
		if err := rows.Scan(&m.RechargeID, &m.UserID, &m.Amount, &m.Provider, &m.ExternalRef, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recharge row: %w", err)
		}
		recharges = append(recharges, mapping.ToDomainRecharge(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating recharge rows: %w", rows.Err())
	}
	return recharges, nil
}

func (r *PgxLedgerRepository) ListTransfersBySender(ctx context.Context, userID string) ([]domain.TransferWithParty, error) {
	return r.listTransfers(ctx, listSentTransfersQuery, userID)
}

func (r *PgxLedgerRepository) ListTransfersByRecipient(ctx context.Context, userID string) ([]domain.TransferWithParty, error) {
	return r.listTransfers(ctx, listReceivedTransfersQuery, userID)
}

func (r *PgxLedgerRepository) listTransfers(ctx context.Context, query, userID string) ([]domain.TransferWithParty, error) {
	rows, err := r.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	transfers := []domain.TransferWithParty{}
	for rows.Next() {
		var m models.TransferWithParty
		err := rows.Scan(
			&m.TransferID,
			&m.SenderID,
			&m.RecipientID,
			&m.Amount,
			&m.CreatedAt,
			&m.PartyFirstName,
			&m.PartyLastName,
			&m.PartyPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, mapping.ToDomainTransferWithParty(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", rows.Err())
	}
	return transfers, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
