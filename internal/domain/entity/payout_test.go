package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/referral-ledger/mocks/port/core"
)

func TestNewPayoutRequest(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime)

	account := &Account{ID: uuid.New(), PayoutEmail: "payee@example.com"}
	account.SetBalance(2500)

	payout := NewPayoutRequest(account, mockTime)

	assert.NotEqual(t, uuid.Nil, payout.ID)
	assert.Equal(t, account.ID, payout.AccountID)
	assert.Equal(t, int64(2500), payout.AmountRequested)
	assert.Equal(t, "25.00", payout.FormattedAmount())
	assert.Equal(t, "payee@example.com", payout.DestinationEmail)
	assert.Equal(t, PayoutPending, payout.Status)
	assert.Equal(t, fixedTime, payout.CreatedAt)
	assert.Nil(t, payout.ResolvedAt)
}

func TestPayoutRequest_Resolve(t *testing.T) {
	fixedTime := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("Pending to settled", func(t *testing.T) {
		payout := &PayoutRequest{ID: uuid.New(), Status: PayoutPending}

		require.NoError(t, payout.Resolve(PayoutSettled, mockTime))
		assert.Equal(t, PayoutSettled, payout.Status)
		require.NotNil(t, payout.ResolvedAt)
		assert.Equal(t, fixedTime, *payout.ResolvedAt)
	})

	t.Run("Terminal states do not transition", func(t *testing.T) {
		payout := &PayoutRequest{ID: uuid.New(), Status: PayoutRejected}

		err := payout.Resolve(PayoutSettled, mockTime)
		assert.ErrorIs(t, err, errs.ErrPayoutNotPending)
		assert.Equal(t, PayoutRejected, payout.Status)
	})

	t.Run("Pending is not an outcome", func(t *testing.T) {
		payout := &PayoutRequest{ID: uuid.New(), Status: PayoutPending}

		err := payout.Resolve(PayoutPending, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidPayoutStatus)
	})
}

func TestParsePayoutOutcome(t *testing.T) {
	status, err := ParsePayoutOutcome("settled")
	require.NoError(t, err)
	assert.Equal(t, PayoutSettled, status)

	status, err = ParsePayoutOutcome("rejected")
	require.NoError(t, err)
	assert.Equal(t, PayoutRejected, status)

	_, err = ParsePayoutOutcome("pending")
	assert.ErrorIs(t, err, errs.ErrInvalidPayoutStatus)
}
