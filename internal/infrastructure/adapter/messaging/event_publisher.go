package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	messagingport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/messaging"
)

// MessageBus is the part of a NATS connection the publisher needs
type MessageBus interface {
	Publish(subject string, data []byte) error
}

// EventPublisher publishes ledger events as JSON on <prefix>.<event type>
type EventPublisher struct {
	bus    MessageBus
	prefix string
	logger coreport.Logger
}

var _ messagingport.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher creates a publisher; *nats.Conn satisfies MessageBus
func NewEventPublisher(bus MessageBus, prefix string, logger coreport.Logger) *EventPublisher {
	return &EventPublisher{bus: bus, prefix: prefix, logger: logger}
}

// Subject returns the subject an event type is published on
func (p *EventPublisher) Subject(eventType messagingport.EventType) string {
	return p.prefix + "." + string(eventType)
}

// Publish encodes and sends the event
func (p *EventPublisher) Publish(ctx context.Context, event messagingport.LedgerEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	subject := p.Subject(event.Type)
	if err := p.bus.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("Published ledger event", map[string]any{
		"subject":    subject,
		"account_id": event.AccountID,
	})
	return nil
}
