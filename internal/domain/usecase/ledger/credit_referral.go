package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// CreditReferralBonus inserts the referral edge and credits the referrer in one transaction.
// Only the referrer recorded on the referred account at signup can be credited, and the
// unique edge per referred account makes the call safe to retry.
func (s *Service) CreditReferralBonus(
	ctx context.Context,
	referrerID, referredID uuid.UUID,
	bonusAmount int64,
) (*entity.ReferralEdge, error) {
	edge, err := entity.NewReferralEdge(referrerID, referredID, bonusAmount, s.timeProvider)
	if err != nil {
		return nil, s.finish(OpCreditReferralBonus, referrerID, err)
	}

	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	var credited *entity.Account
	err = s.withinTx(ctx, func(txCtx context.Context) error {
		accounts := s.uow.GetAccountRepository(txCtx)

		referrer, err := accounts.GetByIDForUpdate(txCtx, referrerID)
		if err != nil {
			return fmt.Errorf("load referrer: %w", err)
		}
		referred, err := accounts.GetByID(txCtx, referredID)
		if err != nil {
			return fmt.Errorf("load referred account: %w", err)
		}
		if !referred.WasReferredBy(referrerID) {
			return errs.ErrReferralNotAttributed
		}

		if err := s.uow.GetReferralRepository(txCtx).Insert(txCtx, edge); err != nil {
			if errs.IsDuplicateReferralError(err) {
				return errs.NewDuplicateReferralError(referrerID.String(), referredID.String())
			}
			return fmt.Errorf("insert referral edge: %w", err)
		}

		credited, err = accounts.Update(txCtx, referrerID, persistence.AccountPatch{
			BalanceDelta:    bonusAmount,
			ExpectedVersion: referrer.Version,
		})
		if err != nil {
			return fmt.Errorf("credit referrer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(OpCreditReferralBonus, referrerID, err)
	}

	s.metrics.AddAmount(coreport.DirectionCredit, bonusAmount)
	s.logger.Info("Referral bonus credited", map[string]any{
		"referrer_id":  referrerID.String(),
		"referred_id":  referredID.String(),
		"bonus_amount": bonusAmount,
		"balance":      credited.Balance(),
	})
	s.afterCommit(ctx, messaging.LedgerEvent{
		Type:       messaging.EventReferralCredited,
		AccountID:  referrerID.String(),
		Amount:     bonusAmount,
		ReferredID: referredID.String(),
	}, referrerID)

	return edge, s.finish(OpCreditReferralBonus, referrerID, nil)
}
