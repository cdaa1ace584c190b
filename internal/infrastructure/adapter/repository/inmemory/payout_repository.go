package inmemory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// PayoutRepository implements persistence.PayoutRepository on a Store
type PayoutRepository struct {
	store *Store
}

var _ persistence.PayoutRepository = (*PayoutRepository)(nil)

// Insert stores a new payout request
func (r *PayoutRepository) Insert(ctx context.Context, payout *entity.PayoutRequest) error {
	return r.store.run(ctx, func(record func(func())) error {
		if err := r.store.takeFault(FaultPayoutInsert); err != nil {
			return err
		}
		if _, ok := r.store.accounts[payout.AccountID]; !ok {
			return errs.ErrAccountNotFound
		}
		if _, ok := r.store.payouts[payout.ID]; ok {
			return errs.ErrConstraintViolation
		}

		r.store.payouts[payout.ID] = *payout
		record(func() { delete(r.store.payouts, payout.ID) })
		return nil
	})
}

// GetByID returns a copy of the payout request, or ErrPayoutNotFound
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error) {
	var out *entity.PayoutRequest
	err := r.store.run(ctx, func(func(func())) error {
		payout, ok := r.store.payouts[id]
		if !ok {
			return errs.ErrPayoutNotFound
		}
		out = &payout
		return nil
	})
	return out, err
}

// GetByIDForUpdate is GetByID: the store lock already serializes the transaction
func (r *PayoutRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error) {
	return r.GetByID(ctx, id)
}

// ListByAccount returns the account's payout requests, newest first
func (r *PayoutRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.PayoutRequest, error) {
	var out []*entity.PayoutRequest
	err := r.store.run(ctx, func(func(func())) error {
		for _, payout := range r.store.payouts {
			if payout.AccountID == accountID {
				p := payout
				out = append(out, &p)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

// UpdateStatus moves the payout out of status from, failing with ErrConflict
// when another resolution got there first
func (r *PayoutRepository) UpdateStatus(ctx context.Context, payout *entity.PayoutRequest, from entity.PayoutStatus) error {
	return r.store.run(ctx, func(record func(func())) error {
		if err := r.store.takeFault(FaultPayoutStatus); err != nil {
			return err
		}
		current, ok := r.store.payouts[payout.ID]
		if !ok {
			return errs.ErrPayoutNotFound
		}
		if current.Status != from {
			return errs.ErrConflict
		}

		updated := current
		updated.Status = payout.Status
		updated.ResolvedAt = payout.ResolvedAt
		r.store.payouts[payout.ID] = updated
		record(func() { r.store.payouts[payout.ID] = current })
		return nil
	})
}
