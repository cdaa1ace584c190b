package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// AccountPatch describes a single atomic change to an account row
type AccountPatch struct {
	// BalanceDelta is added to the stored balance in the same statement
	BalanceDelta int64
	// PayoutEmail replaces the payout destination when not nil
	PayoutEmail *string
	// ExpectedVersion turns the update into a compare-and-swap when non-zero
	ExpectedVersion int64
}

// AccountRepository defines methods to interact with account data
type AccountRepository interface {
	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If account with specified ID doesn't exist
	// - ErrTransientIO: If the store cannot be reached before the deadline
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the surrounding
	// unit of work ends. Outside a unit of work it behaves like GetByID.
	//
	// Possible errors:
	// - ErrAccountNotFound: If account with specified ID doesn't exist
	// - ErrConflict: If the row lock could not be taken
	// - ErrTransientIO: If the store cannot be reached before the deadline
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetByReferralCode retrieves the account owning a referral code
	//
	// Possible errors:
	// - ErrReferralCodeNotFound: If no account owns the code
	GetByReferralCode(ctx context.Context, code string) (*entity.Account, error)

	// Create stores a new account
	//
	// Possible errors:
	// - ErrDuplicateAccount: If an account with the same ID already exists
	// - ErrConflict: If the referral code collides with an existing one
	Create(ctx context.Context, account *entity.Account) error

	// Update applies a patch atomically, bumps the version and returns the stored account
	//
	// Possible errors:
	// - ErrAccountNotFound: If account doesn't exist
	// - ErrConflict: If ExpectedVersion is set and does not match
	// - ErrConstraintViolation: If the balance would become negative
	Update(ctx context.Context, id uuid.UUID, patch AccountPatch) (*entity.Account, error)
}
