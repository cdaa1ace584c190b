package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
)

func TestService_GetAccountSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("should return balance, email, code and referral count", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 1000, "payee@example.com")
		for i := 0; i < 3; i++ {
			referred := f.seedReferred(t, referrer, 1000)
			_, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)
			require.NoError(t, err)
		}

		summary, err := f.service.GetAccountSummary(ctx, referrer.ID)

		require.NoError(t, err)
		assert.Equal(t, referrer.ID, summary.AccountID)
		assert.Equal(t, int64(4000), summary.Balance)
		assert.Equal(t, "payee@example.com", summary.PayoutEmail)
		assert.Equal(t, referrer.ReferralCode, summary.ReferralCode)
		assert.Equal(t, int64(3), summary.ReferralCount)

		referrals, err := f.service.ListReferrals(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Len(t, referrals, 3)
	})

	t.Run("should serve from cache until a mutation invalidates it", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 1500, "payee@example.com")

		first, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), first.Balance)

		_, err = f.service.RequestPayout(ctx, account.ID)
		require.NoError(t, err)

		second, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), second.Balance)
	})

	t.Run("should not cache a summary read before a concurrent payout", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 1500, "payee@example.com")

		// the payout commits and invalidates after the summary was read from the store
		// but before the read fills the cache
		f.cache.beforeSet = func() {
			_, err := f.service.RequestPayout(ctx, account.ID)
			require.NoError(t, err)
		}

		first, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), first.Balance)
		assert.Equal(t, 1, f.cache.skipped)

		second, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), second.Balance)
	})

	t.Run("should not mutate anything", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 700, "")

		_, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)

		stored, err := f.store.GetAccountRepository(ctx).GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Version, stored.Version)
	})

	t.Run("should return not found for a missing account", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.GetAccountSummary(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)

		_, err = f.service.ListPayouts(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("should record listings like every other operation", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 0, "")
		missing := uuid.New()

		_, err := f.service.ListReferrals(ctx, account.ID)
		require.NoError(t, err)
		_, err = f.service.ListPayouts(ctx, account.ID)
		require.NoError(t, err)

		_, err = f.service.ListReferrals(ctx, missing)
		assert.ErrorIs(t, err, errs.ErrNotFound)
		var ledgerErr *errs.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Equal(t, OpListReferrals, ledgerErr.Operation)

		_, err = f.service.ListPayouts(ctx, missing)
		assert.ErrorIs(t, err, errs.ErrNotFound)

		assert.Equal(t, 1, f.metrics.count(OpListReferrals+"/success"))
		assert.Equal(t, 1, f.metrics.count(OpListPayouts+"/success"))
		assert.Equal(t, 1, f.metrics.count(OpListReferrals+"/rejected"))
		assert.Equal(t, 1, f.metrics.count(OpListPayouts+"/rejected"))
	})

	t.Run("should list payouts across resolutions", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 1000, "payee@example.com")
		payout, err := f.service.RequestPayout(ctx, account.ID)
		require.NoError(t, err)
		_, err = f.service.ResolvePayout(ctx, payout.ID, entity.PayoutRejected)
		require.NoError(t, err)
		_, err = f.service.RequestPayout(ctx, account.ID)
		require.NoError(t, err)

		payouts, err := f.service.ListPayouts(ctx, account.ID)

		require.NoError(t, err)
		assert.Len(t, payouts, 2)
	})
}
