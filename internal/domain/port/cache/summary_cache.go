package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// SummaryCache caches account summaries between mutations.
//
// Every Get also returns the account's current generation. Invalidate starts a new
// generation, and Set only stores a summary whose generation is still current, so a
// summary read before a mutation can never be cached after it.
type SummaryCache interface {
	// Get returns the cached summary, or nil without error on a miss, and the current generation
	Get(ctx context.Context, accountID uuid.UUID) (*entity.AccountSummary, string, error)
	// Set stores a summary built under generation, dropping it if the generation has moved on
	Set(ctx context.Context, summary *entity.AccountSummary, generation string) error
	// Invalidate drops the cached summaries of the given accounts and starts new generations
	Invalidate(ctx context.Context, accountIDs ...uuid.UUID) error
}
