package inmemory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// ReferralRepository implements persistence.ReferralRepository on a Store
type ReferralRepository struct {
	store *Store
}

var _ persistence.ReferralRepository = (*ReferralRepository)(nil)

// Insert stores the edge. A second edge for the same referred account is ErrDuplicateReferral.
func (r *ReferralRepository) Insert(ctx context.Context, edge *entity.ReferralEdge) error {
	return r.store.run(ctx, func(record func(func())) error {
		if err := r.store.takeFault(FaultReferralInsert); err != nil {
			return err
		}
		if _, ok := r.store.edges[edge.ReferredID]; ok {
			return errs.ErrDuplicateReferral
		}
		if _, ok := r.store.accounts[edge.ReferrerID]; !ok {
			return errs.ErrAccountNotFound
		}
		if _, ok := r.store.accounts[edge.ReferredID]; !ok {
			return errs.ErrAccountNotFound
		}

		r.store.edges[edge.ReferredID] = *edge
		record(func() { delete(r.store.edges, edge.ReferredID) })
		return nil
	})
}

// ListByReferrer returns the edges created by the referrer, newest first
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.ReferralEdge, error) {
	var out []*entity.ReferralEdge
	err := r.store.run(ctx, func(func(func())) error {
		for _, edge := range r.store.edges {
			if edge.ReferrerID == referrerID {
				e := edge
				out = append(out, &e)
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

// CountByReferrer returns how many accounts the referrer brought in
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := r.store.run(ctx, func(func(func())) error {
		for _, edge := range r.store.edges {
			if edge.ReferrerID == referrerID {
				count++
			}
		}
		return nil
	})
	return count, err
}
