package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// LedgerUseCase owns every mutation of an account balance
type LedgerUseCase interface {
	// CreditReferralBonus records that referrerID brought referredID and credits the
	// referrer with bonusAmount minor units in one transaction.
	// A repeated call for the same referred account fails with ErrDuplicateReferral.
	CreditReferralBonus(ctx context.Context, referrerID, referredID uuid.UUID, bonusAmount int64) (*entity.ReferralEdge, error)

	// SetPayoutDestination validates and stores the payout email of an account
	SetPayoutDestination(ctx context.Context, accountID uuid.UUID, email string) (*entity.Account, error)

	// RequestPayout moves the whole balance into a pending payout request
	RequestPayout(ctx context.Context, accountID uuid.UUID) (*entity.PayoutRequest, error)

	// ResolvePayout settles or rejects a pending payout; a rejection returns the funds
	ResolvePayout(ctx context.Context, payoutID uuid.UUID, outcome entity.PayoutStatus) (*entity.PayoutRequest, error)

	// GetAccountSummary returns balance, payout email, referral code and referral count
	GetAccountSummary(ctx context.Context, accountID uuid.UUID) (*entity.AccountSummary, error)

	// ListReferrals returns the referral edges created by an account, newest first
	ListReferrals(ctx context.Context, accountID uuid.UUID) ([]*entity.ReferralEdge, error)

	// ListPayouts returns the payout requests of an account, newest first
	ListPayouts(ctx context.Context, accountID uuid.UUID) ([]*entity.PayoutRequest, error)
}
