package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// SetPayoutDestination stores a validated payout email. The balance is left untouched.
func (s *Service) SetPayoutDestination(ctx context.Context, accountID uuid.UUID, email string) (*entity.Account, error) {
	normalized, err := s.validator.Normalize(email)
	if err != nil {
		return nil, s.finish(OpSetPayoutDestination, accountID, err)
	}

	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	account, err := s.uow.GetAccountRepository(ctx).Update(ctx, accountID, persistence.AccountPatch{
		PayoutEmail: &normalized,
	})
	if err != nil {
		return nil, s.finish(OpSetPayoutDestination, accountID, err)
	}

	s.logger.Info("Payout destination updated", map[string]any{
		"account_id": accountID.String(),
	})
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), accountID); err != nil {
		s.logger.Warn("Failed to invalidate account summary cache", map[string]any{
			"error":      err.Error(),
			"account_id": accountID.String(),
		})
	}

	return account, s.finish(OpSetPayoutDestination, accountID, nil)
}
