package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// GetAccountSummary returns the dashboard view of an account, reading through the summary cache.
// The fill is tied to the cache generation seen before the database read, so a mutation that
// commits in between leaves nothing stale behind.
func (s *Service) GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*entity.AccountSummary, error) {
	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	cached, generation, cacheErr := s.cache.Get(ctx, accountID)
	if cacheErr != nil {
		s.logger.Warn("Failed to read account summary cache", map[string]any{
			"error":      cacheErr.Error(),
			"account_id": accountID.String(),
		})
	}
	if cached != nil {
		return cached, s.finish(OpGetAccountSummary, accountID, nil)
	}

	account, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	if err != nil {
		return nil, s.finish(OpGetAccountSummary, accountID, err)
	}
	count, err := s.uow.GetReferralRepository(ctx).CountByReferrer(ctx, accountID)
	if err != nil {
		return nil, s.finish(OpGetAccountSummary, accountID, fmt.Errorf("count referrals: %w", err))
	}

	summary := entity.NewAccountSummary(account, count)
	if cacheErr != nil {
		// without a generation the fill cannot be checked against invalidations
		return summary, s.finish(OpGetAccountSummary, accountID, nil)
	}
	if err := s.cache.Set(ctx, summary, generation); err != nil {
		s.logger.Warn("Failed to write account summary cache", map[string]any{
			"error":      err.Error(),
			"account_id": accountID.String(),
		})
	}
	return summary, s.finish(OpGetAccountSummary, accountID, nil)
}

// ListReferrals returns the referral edges created by the account
func (s *Service) ListReferrals(ctx context.Context, accountID uuid.UUID) ([]*entity.ReferralEdge, error) {
	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	if _, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID); err != nil {
		return nil, s.finish(OpListReferrals, accountID, err)
	}
	edges, err := s.uow.GetReferralRepository(ctx).ListByReferrer(ctx, accountID)
	if err != nil {
		return nil, s.finish(OpListReferrals, accountID, fmt.Errorf("list referrals: %w", err))
	}
	return edges, s.finish(OpListReferrals, accountID, nil)
}

// ListPayouts returns the payout requests of the account
func (s *Service) ListPayouts(ctx context.Context, accountID uuid.UUID) ([]*entity.PayoutRequest, error) {
	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	if _, err := s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID); err != nil {
		return nil, s.finish(OpListPayouts, accountID, err)
	}
	payouts, err := s.uow.GetPayoutRepository(ctx).ListByAccount(ctx, accountID)
	if err != nil {
		return nil, s.finish(OpListPayouts, accountID, fmt.Errorf("list payouts: %w", err))
	}
	return payouts, s.finish(OpListPayouts, accountID, nil)
}
