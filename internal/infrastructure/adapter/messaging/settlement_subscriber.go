package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/usecase"
)

// Settlement command subjects, relative to the subject prefix
const (
	SubjectSettlementSettled  = "settlement.settled"
	SubjectSettlementRejected = "settlement.rejected"
)

// SettlementCommand is the body of a settlement message
type SettlementCommand struct {
	PayoutID string `json:"payoutId"`
}

// SettlementReply is sent back when the command carries a reply subject
type SettlementReply struct {
	PayoutID  string `json:"payoutId"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// SettlementSubscriber resolves pending payouts from settlement commands on a queue group
type SettlementSubscriber struct {
	conn   *nats.Conn
	ledger usecase.LedgerUseCase
	prefix string
	queue  string
	logger coreport.Logger
	subs   []*nats.Subscription
}

// NewSettlementSubscriber creates a new settlement subscriber
func NewSettlementSubscriber(conn *nats.Conn, ledger usecase.LedgerUseCase, prefix, queue string, logger coreport.Logger) *SettlementSubscriber {
	return &SettlementSubscriber{
		conn:   conn,
		ledger: ledger,
		prefix: prefix,
		queue:  queue,
		logger: logger.With(map[string]any{"component": "settlement"}),
	}
}

// Start subscribes to the settlement subjects and blocks until ctx is cancelled
func (s *SettlementSubscriber) Start(ctx context.Context) error {
	outcomes := map[string]entity.PayoutStatus{
		SubjectSettlementSettled:  entity.PayoutSettled,
		SubjectSettlementRejected: entity.PayoutRejected,
	}

	for suffix, outcome := range outcomes {
		subject := s.prefix + "." + suffix
		sub, err := s.conn.QueueSubscribe(subject, s.queue, func(msg *nats.Msg) {
			s.handleMessage(ctx, outcome, msg)
		})
		if err != nil {
			s.drain()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info("Settlement subscriber is running", map[string]any{"queue": s.queue, "prefix": s.prefix})

	<-ctx.Done()
	s.logger.Info("Settlement subscriber shutting down, draining subscriptions", nil)
	s.drain()
	return nil
}

func (s *SettlementSubscriber) drain() {
	for _, sub := range s.subs {
		_ = sub.Drain()
	}
	s.subs = nil
}

// handleMessage resolves one payout and answers the requester when asked to
func (s *SettlementSubscriber) handleMessage(ctx context.Context, outcome entity.PayoutStatus, msg *nats.Msg) {
	reply := s.resolve(context.WithoutCancel(ctx), outcome, msg.Data)

	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("Failed to answer settlement command", map[string]any{
			"payout_id": reply.PayoutID,
			"error":     err.Error(),
		})
	}
}

func (s *SettlementSubscriber) resolve(ctx context.Context, outcome entity.PayoutStatus, data []byte) SettlementReply {
	var cmd SettlementCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.logger.Warn("Malformed settlement command", map[string]any{"error": err.Error()})
		return failedReply("", errs.ErrInvalidRequest)
	}

	payoutID, err := uuid.Parse(cmd.PayoutID)
	if err != nil {
		s.logger.Warn("Settlement command with invalid payout ID", map[string]any{"payout_id": cmd.PayoutID})
		return failedReply(cmd.PayoutID, errs.ErrInvalidRequest)
	}

	payout, err := s.ledger.ResolvePayout(ctx, payoutID, outcome)
	if err != nil {
		fields := map[string]any{"payout_id": cmd.PayoutID, "outcome": string(outcome), "error": err.Error()}
		if errors.Is(err, errs.ErrPayoutNotPending) {
			s.logger.Info("Settlement command for a resolved payout ignored", fields)
		} else {
			s.logger.Error("Failed to resolve payout", fields)
		}
		return failedReply(cmd.PayoutID, err)
	}

	s.logger.Info("Payout resolved", map[string]any{
		"payout_id":  payout.ID.String(),
		"account_id": payout.AccountID.String(),
		"status":     string(payout.Status),
		"amount":     payout.AmountRequested,
	})
	return SettlementReply{PayoutID: payout.ID.String(), Status: string(payout.Status)}
}

func failedReply(payoutID string, err error) SettlementReply {
	return SettlementReply{
		PayoutID:  payoutID,
		Error:     err.Error(),
		Code:      errs.ErrorCode(err),
		Retryable: errs.IsRetryable(err),
	}
}
