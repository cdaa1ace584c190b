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

func TestNewReferralEdge(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	referrer, referred := uuid.New(), uuid.New()

	edge, err := NewReferralEdge(referrer, referred, 1000, mockTime)
	require.NoError(t, err)
	assert.Equal(t, referrer, edge.ReferrerID)
	assert.Equal(t, referred, edge.ReferredID)
	assert.Equal(t, int64(1000), edge.BonusAmount)
	assert.Equal(t, fixedTime, edge.CreatedAt)

	tests := []struct {
		name     string
		referrer uuid.UUID
		referred uuid.UUID
		bonus    int64
		want     error
	}{
		{"nil referrer", uuid.Nil, referred, 1000, errs.ErrInvalidAccountID},
		{"nil referred", referrer, uuid.Nil, 1000, errs.ErrInvalidAccountID},
		{"self referral", referrer, referrer, 1000, errs.ErrSelfReferral},
		{"zero bonus", referrer, referred, 0, errs.ErrInvalidAmount},
		{"negative bonus", referrer, referred, -5, errs.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReferralEdge(tt.referrer, tt.referred, tt.bonus, mockTime)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
