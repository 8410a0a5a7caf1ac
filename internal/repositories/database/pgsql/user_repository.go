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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const selectUserFields = `
	user_id, first_name, last_name, phone_number, pin_hash, balance,
	created_at, updated_at, deleted_at
`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.FirstName,
		&m.LastName,
		&m.PhoneNumber,
		&m.PinHash,
		&m.Balance,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (user_id, first_name, last_name, phone_number, pin_hash, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		m.UserID,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.PinHash,
		m.Balance,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return translateError(err, "failed to save user")
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.conn(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find user by ID %s", userID))
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM users WHERE phone_number = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.conn(ctx).QueryRow(ctx, query, phone))
	if err != nil {
		return nil, translateError(err, "failed to find user by phone")
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + selectUserFields + `
        FROM users
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC, user_id
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.conn(ctx).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		modelUsers = append(modelUsers, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        UPDATE users
        SET first_name = $1, last_name = $2, phone_number = $3, pin_hash = $4, updated_at = $5
        WHERE user_id = $6 AND deleted_at IS NULL;
    `
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.PinHash,
		m.LastUpdatedAt,
		m.UserID,
	)
	if err != nil {
		return translateError(err, "failed to execute update user query")
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	query := `
        UPDATE users
        SET deleted_at = $1, updated_at = $1
        WHERE user_id = $2 AND deleted_at IS NULL;
    `
	cmdTag, err := r.conn(ctx).Exec(ctx, query, deletedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}
