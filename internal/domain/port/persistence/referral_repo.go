package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// ReferralRepository defines methods to interact with referral edges
type ReferralRepository interface {
	// Insert saves a new referral edge
	//
	// Possible errors:
	// - ErrDuplicateReferral: If the referred account already has an edge
	// - ErrAccountNotFound: If either account doesn't exist
	Insert(ctx context.Context, edge *entity.ReferralEdge) error

	// ListByReferrer returns the edges created by a referrer, newest first
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.ReferralEdge, error)

	// CountByReferrer returns the number of accounts the referrer brought in
	CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int64, error)
}
