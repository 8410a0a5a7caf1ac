package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation    = "23505"
	pgCheckViolation     = "23514"
	pgNumericOutOfRange  = "22003"
	balanceNonNegativeCK = "users_balance_non_negative"
)

type txKey struct{}

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// conn returns the transaction carried by ctx, or the pool when there is none.
func (r *BaseRepository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Persistence("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.Persistence("failed to rollback transaction", err)
	}
	return nil
}

// WithinTransaction runs fn inside one database transaction. A ctx that
// already carries a transaction is reused as is.
func (r *BaseRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(context.WithoutCancel(ctx), tx)
			panic(p)
		}
		if err != nil {
			if rbErr := r.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// translateError maps driver errors onto the application's sentinels.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, apperrors.ErrDuplicate)
		case pgCheckViolation:
			if pgErr.ConstraintName == balanceNonNegativeCK {
				return fmt.Errorf("%s: %w", op, apperrors.ErrInsufficientBalance)
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrValidation)
		case pgNumericOutOfRange:
			return fmt.Errorf("%s: %w", op, apperrors.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
