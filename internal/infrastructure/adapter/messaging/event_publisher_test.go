package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messagingport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/logger"
)

type published struct {
	subject string
	data    []byte
}

type fakeBus struct {
	messages []published
	err      error
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{subject: subject, data: data})
	return nil
}

func TestEventPublisher_Publish(t *testing.T) {
	bus := &fakeBus{}
	publisher := NewEventPublisher(bus, "ledger", logger.NewNoopLogger())
	event := messagingport.LedgerEvent{
		Type:       messagingport.EventReferralCredited,
		AccountID:  "a1",
		Amount:     1000,
		ReferredID: "b2",
		OccurredAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, bus.messages, 1)
	assert.Equal(t, "ledger.referral.credited", bus.messages[0].subject)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(bus.messages[0].data, &decoded))
	assert.Equal(t, "referral.credited", decoded["type"])
	assert.Equal(t, "a1", decoded["accountId"])
	assert.Equal(t, "b2", decoded["referredId"])
	assert.EqualValues(t, 1000, decoded["amount"])
	assert.NotContains(t, decoded, "payoutId")
}

func TestEventPublisher_Errors(t *testing.T) {
	boom := errors.New("nats: connection closed")
	publisher := NewEventPublisher(&fakeBus{err: boom}, "ledger", logger.NewNoopLogger())
	event := messagingport.LedgerEvent{Type: messagingport.EventPayoutRequested}

	assert.ErrorIs(t, publisher.Publish(context.Background(), event), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, publisher.Publish(ctx, event), context.Canceled)
}

func TestEventPublisher_Subject(t *testing.T) {
	publisher := NewEventPublisher(&fakeBus{}, "staging.ledger", logger.NewNoopLogger())
	assert.Equal(t, "staging.ledger.payout.resolved", publisher.Subject(messagingport.EventPayoutResolved))
}
