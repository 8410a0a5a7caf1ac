package pgsql

import (
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	tokenRepo := newPgxAccessTokenRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:   userRepo,
		LedgerRepo: ledgerRepo,
		TokenRepo:  tokenRepo,
		TxManager:  ledgerRepo,
	}
}
