package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// PayoutStatus defines possible states of a payout request
type PayoutStatus string

// PayoutStatus constants
const (
	PayoutPending  PayoutStatus = "pending"
	PayoutSettled  PayoutStatus = "settled"
	PayoutRejected PayoutStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed from the status
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutSettled || s == PayoutRejected
}

// ParsePayoutOutcome validates a resolution outcome
func ParsePayoutOutcome(s string) (PayoutStatus, error) {
	status := PayoutStatus(s)
	if !status.IsTerminal() {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidPayoutStatus, s)
	}
	return status, nil
}

// PayoutRequest is a request to pay the whole balance out to the account's payout email
type PayoutRequest struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	AmountRequested  int64
	DestinationEmail string
	Status           PayoutStatus
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

// NewPayoutRequest creates a pending payout request for the given account snapshot
func NewPayoutRequest(account *Account, timeProvider coreport.TimeProvider) *PayoutRequest {
	return &PayoutRequest{
		ID:               uuid.New(),
		AccountID:        account.ID,
		AmountRequested:  account.Balance(),
		DestinationEmail: account.PayoutEmail,
		Status:           PayoutPending,
		CreatedAt:        timeProvider.Now(),
	}
}

// Resolve moves a pending request to a terminal status
func (p *PayoutRequest) Resolve(outcome PayoutStatus, timeProvider coreport.TimeProvider) error {
	if !outcome.IsTerminal() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidPayoutStatus, outcome)
	}
	if p.Status != PayoutPending {
		return fmt.Errorf("%w: payout %s is %s", errs.ErrPayoutNotPending, p.ID, p.Status)
	}

	now := timeProvider.Now()
	p.Status = outcome
	p.ResolvedAt = &now
	return nil
}

// FormattedAmount returns the requested amount with 2 decimal places
func (p *PayoutRequest) FormattedAmount() string {
	return FormatMinorUnits(p.AmountRequested)
}
