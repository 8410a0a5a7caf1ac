// Package memory is an in-process ledger store. A unit of work runs against
// a private copy of the data which replaces the committed state only when the
// unit succeeds, so readers never see uncommitted or rolled back changes.
package memory

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	"github.com/SscSPs/momo_backend/internal/models"
)

type txKey struct{}

// Store holds users, ledger records and access tokens in memory.
type Store struct {
	// txMu is held for the whole of a unit of work, and briefly by writes
	// made outside of one.
	txMu sync.Mutex
	// mu guards the committed pointer.
	mu        sync.RWMutex
	committed *state

	now func() time.Time
}

type state struct {
	users     map[string]models.User
	recharges []models.Recharge
	transfers []models.Transfer
	tokens    map[string]models.AccessToken
}

// unit is the working copy of one unit of work.
type unit struct {
	owner *Store
	mu    sync.Mutex
	data  *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		committed: &state{
			users:  make(map[string]models.User),
			tokens: make(map[string]models.AccessToken),
		},
		now: time.Now,
	}
}

// NewRepositoryProvider exposes a single store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:   s,
		LedgerRepo: s,
		TokenRepo:  s,
		TxManager:  s,
	}
}

var (
	_ portsrepo.UserRepositoryFacade   = (*Store)(nil)
	_ portsrepo.LedgerRepositoryWithTx = (*Store)(nil)
	_ portsrepo.AccessTokenRepository  = (*Store)(nil)
)

func (s *Store) unitOf(ctx context.Context) *unit {
	u, _ := ctx.Value(txKey{}).(*unit)
	if u == nil || u.owner != s {
		return nil
	}
	return u
}

// WithinTransaction runs fn as one unit of work. Units of work never overlap;
// changes made by fn become visible only if it returns nil.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.unitOf(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, &unit{owner: s, data: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// read runs fn against the data visible to ctx: the working copy inside a
// unit of work, the committed state otherwise.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if u := s.unitOf(ctx); u != nil {
		u.mu.Lock()
		defer u.mu.Unlock()
		return fn(u.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write is read for mutations. Outside a unit of work fn must check before it
// changes anything, since its changes land on the committed state directly.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if u := s.unitOf(ctx); u != nil {
		u.mu.Lock()
		defer u.mu.Unlock()
		return fn(u.data)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

func (st *state) clone() *state {
	c := &state{
		users:     make(map[string]models.User, len(st.users)),
		recharges: append([]models.Recharge(nil), st.recharges...),
		transfers: append([]models.Transfer(nil), st.transfers...),
		tokens:    make(map[string]models.AccessToken, len(st.tokens)),
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.tokens {
		c.tokens[k] = v
	}
	return c
}
