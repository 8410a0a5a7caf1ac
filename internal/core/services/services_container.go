package services

import (
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/platform/config"
	"github.com/SscSPs/momo_backend/internal/platform/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, repos.TokenRepo, repos.TxManager)
	container.Token = NewTokenService(cfg, repos.TokenRepo)
	container.Transaction = NewTransactionService(
		repos.LedgerRepo,
		repos.UserRepo,
		repos.TxManager,
		WithEventPublisher(publisher),
	)
	container.Card = NewCardService(repos.UserRepo)

	return container
}
