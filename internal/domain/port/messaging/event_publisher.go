package messaging

import (
	"context"
	"time"
)

// EventType names a ledger event; it is used as the subject suffix on the bus
type EventType string

// Ledger events published after a successful commit
const (
	EventReferralCredited EventType = "referral.credited"
	EventPayoutRequested  EventType = "payout.requested"
	EventPayoutResolved   EventType = "payout.resolved"
)

// LedgerEvent describes a committed change to the ledger
type LedgerEvent struct {
	Type       EventType `json:"type"`
	AccountID  string    `json:"accountId"`
	Amount     int64     `json:"amount"`
	ReferredID string    `json:"referredId,omitempty"`
	PayoutID   string    `json:"payoutId,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers ledger events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
