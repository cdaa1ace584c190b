package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// PayoutRepository defines methods to interact with payout requests
type PayoutRepository interface {
	// Insert saves a new payout request
	Insert(ctx context.Context, payout *entity.PayoutRequest) error

	// GetByID retrieves a payout request
	//
	// Possible errors:
	// - ErrPayoutNotFound: If the payout doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error)

	// GetByIDForUpdate retrieves a payout request and locks its row inside a unit of work
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.PayoutRequest, error)

	// ListByAccount returns the account's payout requests, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.PayoutRequest, error)

	// UpdateStatus moves a payout from one status to another.
	//
	// Possible errors:
	// - ErrPayoutNotFound: If the payout doesn't exist
	// - ErrConflict: If the stored status is no longer `from`
	UpdateStatus(ctx context.Context, payout *entity.PayoutRequest, from entity.PayoutStatus) error
}
