package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
)

func TestService_SetPayoutDestination(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a trimmed valid address", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 1200, "")

		updated, err := f.service.SetPayoutDestination(ctx, account.ID, "  payee@example.com ")

		require.NoError(t, err)
		assert.Equal(t, "payee@example.com", updated.PayoutEmail)
		assert.Equal(t, int64(1200), updated.Balance())
		assert.Contains(t, f.cache.invalidated, account.ID)
	})

	t.Run("should overwrite a previous address", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 0, "old@example.com")

		updated, err := f.service.SetPayoutDestination(ctx, account.ID, "new@example.com")

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.PayoutEmail)
	})

	t.Run("should reject invalid addresses and keep the old one", func(t *testing.T) {
		f := newFixture(t)
		account := f.seedAccount(t, 0, "old@example.com")

		for _, email := range []string{"", "   ", "not-an-email", "a@", "@b.co", strings.Repeat("a", 250) + "@b.co"} {
			_, err := f.service.SetPayoutDestination(ctx, account.ID, email)
			assert.ErrorIs(t, err, errs.ErrInvalidEmail, "email %q", email)
		}

		summary, err := f.service.GetAccountSummary(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "old@example.com", summary.PayoutEmail)
	})

	t.Run("should return not found for a missing account", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.SetPayoutDestination(ctx, uuid.New(), "payee@example.com")

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestEmailValidator_Normalize(t *testing.T) {
	v := NewEmailValidator()

	email, err := v.Normalize(" first.last+tag@sub.example.org ")
	require.NoError(t, err)
	assert.Equal(t, "first.last+tag@sub.example.org", email)

	_, err = v.Normalize("two@@example.org")
	assert.ErrorIs(t, err, errs.ErrInvalidEmail)
}
