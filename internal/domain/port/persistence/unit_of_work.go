package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetReferralRepository returns a referral repository bound to the current transaction
	GetReferralRepository(ctx context.Context) ReferralRepository

	// GetPayoutRepository returns a payout repository bound to the current transaction
	GetPayoutRepository(ctx context.Context) PayoutRepository
}
