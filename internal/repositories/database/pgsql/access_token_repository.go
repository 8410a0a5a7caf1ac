package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	"github.com/SscSPs/momo_backend/internal/models"
	"github.com/SscSPs/momo_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccessTokenRepository struct {
	BaseRepository
}

// newPgxAccessTokenRepository creates a new instance of PgxAccessTokenRepository
func newPgxAccessTokenRepository(db *pgxpool.Pool) portsrepo.AccessTokenRepository {
	return &PgxAccessTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AccessTokenRepository = (*PgxAccessTokenRepository)(nil)

const (
	accessTokensTable = "access_tokens"

	insertAccessTokenQuery = `
		INSERT INTO ` + accessTokensTable + ` (token_id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	findAccessTokenByIDQuery = `
		SELECT token_id, user_id, expires_at, created_at
		FROM ` + accessTokensTable + `
		WHERE token_id = $1
	`

	deleteAccessTokenQuery        = `DELETE FROM ` + accessTokensTable + ` WHERE token_id = $1`
	deleteAccessTokensByUserQuery = `DELETE FROM ` + accessTokensTable + ` WHERE user_id = $1`
	deleteExpiredAccessTokenQuery = `DELETE FROM ` + accessTokensTable + ` WHERE expires_at < $1`
)

func (r *PgxAccessTokenRepository) Create(ctx context.Context, token domain.AccessToken) error {
	m := mapping.ToModelAccessToken(token)
	_, err := r.conn(ctx).Exec(ctx, insertAccessTokenQuery, m.TokenID, m.UserID, m.ExpiresAt, m.CreatedAt)
	if err != nil {
		return translateError(err, "failed to create access token")
	}
	return nil
}

func (r *PgxAccessTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.AccessToken, error) {
	var m models.AccessToken
	err := r.conn(ctx).QueryRow(ctx, findAccessTokenByIDQuery, tokenID).Scan(
		&m.TokenID, &m.UserID, &m.ExpiresAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "failed to find access token")
	}
	token := mapping.ToDomainAccessToken(m)
	return &token, nil
}

func (r *PgxAccessTokenRepository) Delete(ctx context.Context, tokenID string) error {
	cmdTag, err := r.conn(ctx).Exec(ctx, deleteAccessTokenQuery, tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccessTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.conn(ctx).Exec(ctx, deleteAccessTokensByUserQuery, userID); err != nil {
		return fmt.Errorf("failed to delete access tokens of user: %w", err)
	}
	return nil
}

func (r *PgxAccessTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	cmdTag, err := r.conn(ctx).Exec(ctx, deleteExpiredAccessTokenQuery, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired access tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
