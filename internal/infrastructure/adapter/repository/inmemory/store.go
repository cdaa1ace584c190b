package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// Fault points that can be armed with InjectFault
const (
	FaultAccountUpdate  = "account.update"
	FaultAccountCreate  = "account.create"
	FaultReferralInsert = "referral.insert"
	FaultPayoutInsert   = "payout.insert"
	FaultPayoutStatus   = "payout.status"
	FaultBegin          = "begin"
)

type txKey struct{}

// tx records how to undo every write made since Begin
type tx struct {
	undo []func()
	done bool
}

// Store is a process-local implementation of the persistence ports.
// Transactions are fully serialized: Begin holds the store until Commit or Rollback,
// and a statement outside a transaction holds it for its own duration.
type Store struct {
	sem chan struct{}

	accounts map[uuid.UUID]entity.Account
	codes    map[string]uuid.UUID
	edges    map[uuid.UUID]entity.ReferralEdge
	payouts  map[uuid.UUID]entity.PayoutRequest

	faultMu sync.Mutex
	faults  map[string]error
}

var _ persistence.UnitOfWork = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sem:      make(chan struct{}, 1),
		accounts: make(map[uuid.UUID]entity.Account),
		codes:    make(map[string]uuid.UUID),
		edges:    make(map[uuid.UUID]entity.ReferralEdge),
		payouts:  make(map[uuid.UUID]entity.PayoutRequest),
		faults:   make(map[string]error),
	}
}

// InjectFault makes the next operation at the given point fail with err
func (s *Store) InjectFault(point string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[point] = err
}

func (s *Store) takeFault(point string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err := s.faults[point]
	delete(s.faults, point)
	return err
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errs.ErrTransientIO, ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

// Begin starts a new transaction and returns a transactional context
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if err := s.takeFault(FaultBegin); err != nil {
		return ctx, err
	}
	if err := s.acquire(ctx); err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, txKey{}, &tx{}), nil
}

// Commit commits the transaction in the given context
func (s *Store) Commit(ctx context.Context) error {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok {
		return fmt.Errorf("commit: no transaction in context")
	}
	if t.done {
		return fmt.Errorf("commit: transaction already finished")
	}
	t.done = true
	t.undo = nil
	s.release()
	return nil
}

// Rollback undoes every write of the transaction in reverse order
func (s *Store) Rollback(ctx context.Context) error {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok || t.done {
		return nil
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	t.undo = nil
	s.release()
	return nil
}

// GetAccountRepository returns an account repository bound to the context's transaction
func (s *Store) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return &AccountRepository{store: s}
}

// GetReferralRepository returns a referral repository bound to the context's transaction
func (s *Store) GetReferralRepository(ctx context.Context) persistence.ReferralRepository {
	return &ReferralRepository{store: s}
}

// GetPayoutRepository returns a payout repository bound to the context's transaction
func (s *Store) GetPayoutRepository(ctx context.Context) persistence.PayoutRepository {
	return &PayoutRepository{store: s}
}

// run executes fn with exclusive access. Inside a transaction the lock is already held
// and writes register their undo step through the returned recorder.
func (s *Store) run(ctx context.Context, fn func(record func(undo func())) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrTransientIO, err)
	}

	if t, ok := ctx.Value(txKey{}).(*tx); ok && !t.done {
		return fn(func(undo func()) { t.undo = append(t.undo, undo) })
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	var undo []func()
	err := fn(func(u func()) { undo = append(undo, u) })
	if err != nil {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
	return err
}
