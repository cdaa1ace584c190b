package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/repository/inmemory"
)

func TestService_CreditReferralBonus(t *testing.T) {
	ctx := context.Background()

	t.Run("should credit referrer and record the edge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		referrer := f.seedAccount(t, 1000, "")
		referred := f.seedReferred(t, referrer, 1000)

		// Act
		edge, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, referrer.ID, edge.ReferrerID)
		assert.Equal(t, referred.ID, edge.ReferredID)
		assert.Equal(t, int64(2000), f.balanceOf(t, referrer.ID))
		assert.Equal(t, int64(1000), f.balanceOf(t, referred.ID))

		summary, err := f.service.GetAccountSummary(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.ReferralCount)

		events := f.publisher.Events()
		require.Len(t, events, 1)
		assert.Equal(t, messaging.EventReferralCredited, events[0].Type)
		assert.Equal(t, referrer.ID.String(), events[0].AccountID)
		assert.Equal(t, referred.ID.String(), events[0].ReferredID)
		assert.Equal(t, testBonus, events[0].Amount)
		assert.Contains(t, f.cache.invalidated, referrer.ID)
		assert.Equal(t, 1, f.metrics.count(OpCreditReferralBonus+"/success"))
	})

	t.Run("should reject a duplicate referral and credit only once", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 1000, "")
		referred := f.seedReferred(t, referrer, 1000)

		_, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)
		require.NoError(t, err)

		_, err = f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrDuplicateReferral)
		assert.False(t, errs.IsRetryable(err))
		assert.Equal(t, int64(2000), f.balanceOf(t, referrer.ID))
	})

	t.Run("should reject a second referrer for an already referred account", func(t *testing.T) {
		f := newFixture(t)
		first := f.seedAccount(t, 0, "")
		second := f.seedAccount(t, 0, "")
		referred := f.seedReferred(t, first, 0)

		_, err := f.service.CreditReferralBonus(ctx, first.ID, referred.ID, testBonus)
		require.NoError(t, err)

		_, err = f.service.CreditReferralBonus(ctx, second.ID, referred.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrReferralNotAttributed)
		assert.Equal(t, int64(0), f.balanceOf(t, second.ID))
	})

	t.Run("should reject claiming an account opened without a referral code", func(t *testing.T) {
		f := newFixture(t)
		claimant := f.seedAccount(t, 1000, "")
		stranger := f.seedAccount(t, 1000, "")

		_, err := f.service.CreditReferralBonus(ctx, claimant.ID, stranger.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrReferralNotAttributed)
		assert.False(t, errs.IsRetryable(err))
		assert.Equal(t, int64(1000), f.balanceOf(t, claimant.ID))
		assert.Empty(t, f.publisher.Events())
		assert.Equal(t, 1, f.metrics.count(OpCreditReferralBonus+"/rejected"))

		referrals, err := f.service.ListReferrals(ctx, claimant.ID)
		require.NoError(t, err)
		assert.Empty(t, referrals)
	})

	t.Run("should reject claiming an account attributed to someone else", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedAccount(t, 0, "")
		claimant := f.seedAccount(t, 0, "")
		referred := f.seedReferred(t, owner, 0)

		_, err := f.service.CreditReferralBonus(ctx, claimant.ID, referred.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrReferralNotAttributed)
		assert.Equal(t, int64(0), f.balanceOf(t, claimant.ID))

		_, err = f.service.CreditReferralBonus(ctx, owner.ID, referred.ID, testBonus)
		require.NoError(t, err)
		assert.Equal(t, testBonus, f.balanceOf(t, owner.ID))
	})

	t.Run("should reject self referral without touching the balance", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 1000, "")

		_, err := f.service.CreditReferralBonus(ctx, account.ID, account.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrSelfReferral)
		assert.Equal(t, int64(1000), f.balanceOf(t, account.ID))
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("should return not found for a missing referrer", func(t *testing.T) {
		f := newFixture(t)
		referred := f.seedAccount(t, 1000, "")

		_, err := f.service.CreditReferralBonus(ctx, uuid.New(), referred.ID, testBonus)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("should return not found for a missing referred account", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 1000, "")

		_, err := f.service.CreditReferralBonus(ctx, referrer.ID, uuid.New(), testBonus)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Equal(t, int64(1000), f.balanceOf(t, referrer.ID))
	})

	t.Run("should reject a non-positive bonus", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 0, "")
		referred := f.seedReferred(t, referrer, 0)

		_, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should leave no edge behind when the credit fails", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 1000, "")
		referred := f.seedReferred(t, referrer, 1000)
		f.store.InjectFault(inmemory.FaultAccountUpdate, errs.ErrTransientIO)

		_, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)

		require.ErrorIs(t, err, errs.ErrTransientIO)
		assert.True(t, errs.IsRetryable(err))
		assert.Equal(t, int64(1000), f.balanceOf(t, referrer.ID))

		// the retry succeeds because nothing was persisted
		_, err = f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), f.balanceOf(t, referrer.ID))
	})

	t.Run("should credit once under concurrent retries", func(t *testing.T) {
		f := newFixture(t)
		referrer := f.seedAccount(t, 0, "")
		referred := f.seedReferred(t, referrer, 0)

		const attempts = 10
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.service.CreditReferralBonus(ctx, referrer.ID, referred.ID, testBonus)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		successes := 0
		for err := range results {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, errs.ErrDuplicateReferral)
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, testBonus, f.balanceOf(t, referrer.ID))
	})
}
