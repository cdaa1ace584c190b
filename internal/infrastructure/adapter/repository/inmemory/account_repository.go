package inmemory

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// AccountRepository implements persistence.AccountRepository on a Store
type AccountRepository struct {
	store *Store
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

// GetByID returns a copy of the account, or ErrAccountNotFound
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var out *entity.Account
	err := r.store.run(ctx, func(func(func())) error {
		account, ok := r.store.accounts[id]
		if !ok {
			return errs.ErrAccountNotFound
		}
		out = &account
		return nil
	})
	return out, err
}

// GetByIDForUpdate is GetByID: the store lock already serializes the transaction
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

// GetByReferralCode looks the account up by its normalized referral code
func (r *AccountRepository) GetByReferralCode(ctx context.Context, code string) (*entity.Account, error) {
	var out *entity.Account
	err := r.store.run(ctx, func(func(func())) error {
		id, ok := r.store.codes[code]
		if !ok {
			return errs.ErrReferralCodeNotFound
		}
		account := r.store.accounts[id]
		out = &account
		return nil
	})
	return out, err
}

// Create stores a new account. A taken ID is ErrDuplicateAccount and a taken
// referral code is ErrConflict, so the caller can retry with a fresh code.
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.store.run(ctx, func(record func(func())) error {
		if err := r.store.takeFault(FaultAccountCreate); err != nil {
			return err
		}
		if _, exists := r.store.accounts[account.ID]; exists {
			return errs.ErrDuplicateAccount
		}
		if _, taken := r.store.codes[account.ReferralCode]; taken {
			return errs.ErrConflict
		}

		r.store.accounts[account.ID] = *account
		r.store.codes[account.ReferralCode] = account.ID
		record(func() {
			delete(r.store.accounts, account.ID)
			delete(r.store.codes, account.ReferralCode)
		})
		return nil
	})
}

// Update applies the patch as one versioned write and returns the new state.
// A stale ExpectedVersion is ErrConflict and a negative result is ErrConstraintViolation.
func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, patch persistence.AccountPatch) (*entity.Account, error) {
	var out *entity.Account
	err := r.store.run(ctx, func(record func(func())) error {
		if err := r.store.takeFault(FaultAccountUpdate); err != nil {
			return err
		}
		current, ok := r.store.accounts[id]
		if !ok {
			return errs.ErrAccountNotFound
		}
		if patch.ExpectedVersion != 0 && current.Version != patch.ExpectedVersion {
			return errs.ErrConflict
		}
		if current.Balance()+patch.BalanceDelta < 0 {
			return errs.ErrConstraintViolation
		}

		updated := current
		updated.SetBalance(current.Balance() + patch.BalanceDelta)
		if patch.PayoutEmail != nil {
			updated.PayoutEmail = *patch.PayoutEmail
		}
		updated.Version++
		r.store.accounts[id] = updated
		record(func() { r.store.accounts[id] = current })

		out = &updated
		return nil
	})
	return out, err
}
