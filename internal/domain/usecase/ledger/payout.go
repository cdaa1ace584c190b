package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/persistence"
)

// RequestPayout creates a pending payout for the whole balance and zeroes the balance.
// Concurrent requests on one account serialize on the account row; at most one succeeds.
func (s *Service) RequestPayout(ctx context.Context, accountID uuid.UUID) (*entity.PayoutRequest, error) {
	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	var payout *entity.PayoutRequest
	err := s.withinTx(ctx, func(txCtx context.Context) error {
		accounts := s.uow.GetAccountRepository(txCtx)

		account, err := accounts.GetByIDForUpdate(txCtx, accountID)
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}
		if err := account.CheckPayoutEligibility(s.cfg.MinimumPayout); err != nil {
			return err
		}

		payout = entity.NewPayoutRequest(account, s.timeProvider)
		if err := s.uow.GetPayoutRepository(txCtx).Insert(txCtx, payout); err != nil {
			return fmt.Errorf("insert payout request: %w", err)
		}

		_, err = accounts.Update(txCtx, accountID, persistence.AccountPatch{
			BalanceDelta:    -payout.AmountRequested,
			ExpectedVersion: account.Version,
		})
		if err != nil {
			return fmt.Errorf("debit account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(OpRequestPayout, accountID, err)
	}

	s.metrics.AddAmount(coreport.DirectionDebit, payout.AmountRequested)
	s.logger.Info("Payout requested", map[string]any{
		"account_id": accountID.String(),
		"payout_id":  payout.ID.String(),
		"amount":     payout.AmountRequested,
	})
	s.afterCommit(ctx, messaging.LedgerEvent{
		Type:      messaging.EventPayoutRequested,
		AccountID: accountID.String(),
		Amount:    payout.AmountRequested,
		PayoutID:  payout.ID.String(),
		Status:    string(payout.Status),
	}, accountID)

	return payout, s.finish(OpRequestPayout, accountID, nil)
}

// ResolvePayout moves a pending payout to settled or rejected.
// A rejection credits the requested amount back to the account in the same transaction.
func (s *Service) ResolvePayout(
	ctx context.Context,
	payoutID uuid.UUID,
	outcome entity.PayoutStatus,
) (*entity.PayoutRequest, error) {
	if _, err := entity.ParsePayoutOutcome(string(outcome)); err != nil {
		return nil, s.finish(OpResolvePayout, uuid.Nil, err)
	}

	ctx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	var payout *entity.PayoutRequest
	err := s.withinTx(ctx, func(txCtx context.Context) error {
		payouts := s.uow.GetPayoutRepository(txCtx)

		var err error
		payout, err = payouts.GetByIDForUpdate(txCtx, payoutID)
		if err != nil {
			return fmt.Errorf("load payout request: %w", err)
		}
		if err := payout.Resolve(outcome, s.timeProvider); err != nil {
			return err
		}

		if outcome == entity.PayoutRejected {
			accounts := s.uow.GetAccountRepository(txCtx)
			account, err := accounts.GetByIDForUpdate(txCtx, payout.AccountID)
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}
			_, err = accounts.Update(txCtx, payout.AccountID, persistence.AccountPatch{
				BalanceDelta:    payout.AmountRequested,
				ExpectedVersion: account.Version,
			})
			if err != nil {
				return fmt.Errorf("restore balance: %w", err)
			}
		}

		return payouts.UpdateStatus(txCtx, payout, entity.PayoutPending)
	})

	accountID := uuid.Nil
	if payout != nil {
		accountID = payout.AccountID
	}
	if err != nil {
		return nil, s.finish(OpResolvePayout, accountID, err)
	}

	if outcome == entity.PayoutRejected {
		s.metrics.AddAmount(coreport.DirectionCredit, payout.AmountRequested)
	}
	s.logger.Info("Payout resolved", map[string]any{
		"account_id": accountID.String(),
		"payout_id":  payoutID.String(),
		"status":     string(outcome),
		"amount":     payout.AmountRequested,
	})
	s.afterCommit(ctx, messaging.LedgerEvent{
		Type:      messaging.EventPayoutResolved,
		AccountID: accountID.String(),
		Amount:    payout.AmountRequested,
		PayoutID:  payoutID.String(),
		Status:    string(outcome),
	}, accountID)

	return payout, s.finish(OpResolvePayout, accountID, nil)
}
