// Package memory is an in-process ledger store for development and tests.
//
// Writers are serialised: Begin takes a store-wide lock that is released by
// Commit or Rollback. Each transaction works on a private copy of the state
// that replaces the shared state on Commit, so readers never observe a
// half-applied change.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	portsrepo "github.com/cliquepay/cliquepay_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type state struct {
	users    map[string]domain.User
	external map[string]string
	groups   map[string]domain.Group
	members  map[string][]string
	expenses map[string]domain.Expense
	splits   map[string][]domain.ExpenseSplit
	payments []domain.Payment
	seq      int64
}

func newState() *state {
	return &state{
		users:    make(map[string]domain.User),
		external: make(map[string]string),
		groups:   make(map[string]domain.Group),
		members:  make(map[string][]string),
		expenses: make(map[string]domain.Expense),
		splits:   make(map[string][]domain.ExpenseSplit),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.external {
		c.external[k] = v
	}
	for k, v := range st.groups {
		c.groups[k] = v
	}
	for k, v := range st.members {
		c.members[k] = append([]string(nil), v...)
	}
	for k, v := range st.expenses {
		c.expenses[k] = v
	}
	for k, v := range st.splits {
		c.splits[k] = append([]domain.ExpenseSplit(nil), v...)
	}
	c.payments = append([]domain.Payment(nil), st.payments...)
	c.seq = st.seq
	return c
}

// Store implements every ledger repository port in memory.
type Store struct {
	// writer holds one token while a transaction or seed write is open.
	writer chan struct{}
	mu     sync.RWMutex
	state  *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{writer: make(chan struct{}, 1), state: newState()}
}

// memTx is the transaction handle handed out by Begin. Only the methods of
// this package understand it.
type memTx struct {
	pgx.Tx
	work *state
	done bool
}

// Begin starts a new transaction, waiting for any running one to finish or
// for ctx to be done.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to begin transaction", err)
	}
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, apperrors.NewPersistenceError("failed to begin transaction", ctx.Err())
	}
	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()
	return &memTx{work: work}, nil
}

// Commit publishes the transaction's changes.
func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	mt, err := s.txOf(tx)
	if err != nil {
		return err
	}
	if mt.done {
		return apperrors.NewPersistenceError("failed to commit transaction", pgx.ErrTxClosed)
	}
	s.mu.Lock()
	s.state = mt.work
	s.mu.Unlock()
	mt.done = true
	<-s.writer
	return nil
}

// Rollback discards the transaction's changes. Rolling back a finished
// transaction is a no-op.
func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) error {
	mt, err := s.txOf(tx)
	if err != nil {
		return err
	}
	if mt.done {
		return nil
	}
	mt.work = nil
	mt.done = true
	<-s.writer
	return nil
}

func (s *Store) txOf(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt == nil {
		return nil, fmt.Errorf("%w: transaction was not started by the memory store", apperrors.ErrInternal)
	}
	return mt, nil
}

// work returns the private state of an open transaction.
func (s *Store) work(tx pgx.Tx) (*state, error) {
	mt, err := s.txOf(tx)
	if err != nil {
		return nil, err
	}
	if mt.done {
		return nil, apperrors.NewPersistenceError("transaction already closed", pgx.ErrTxClosed)
	}
	return mt.work, nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// read runs fn against the committed state.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// AddUser registers a user, as the identity provider would.
func (s *Store) AddUser(user domain.User) {
	s.writer <- struct{}{}
	defer func() { <-s.writer }()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := nowUTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt, user.LastUpdatedAt = now, now
	}
	s.state.users[user.UserID] = user
	if user.ExternalID != "" {
		s.state.external[user.ExternalID] = user.UserID
	}
}

// AddGroup registers a group with its members in join order.
func (s *Store) AddGroup(group domain.Group, memberIDs ...string) {
	s.writer <- struct{}{}
	defer func() { <-s.writer }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if group.CreatedAt.IsZero() {
		now := nowUTC()
		group.CreatedAt, group.LastUpdatedAt = now, now
	}
	s.state.groups[group.GroupID] = group
	s.state.members[group.GroupID] = append([]string(nil), memberIDs...)
}

// Compile-time checks
var (
	_ portsrepo.ExpenseRepositoryWithTx = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade = (*Store)(nil)
	_ portsrepo.FinancialReader         = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade    = (*Store)(nil)
	_ portsrepo.GroupReader             = (*Store)(nil)
)

// Provider returns a RepositoryProvider backed entirely by s.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExpenseRepo:   s,
		PaymentRepo:   s,
		FinancialRepo: s,
		UserRepo:      s,
		GroupRepo:     s,
	}
}
