package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// ReferralEdge records that ReferrerID brought ReferredID to the service.
// There is at most one edge per referred account and edges are never changed.
type ReferralEdge struct {
	ReferrerID  uuid.UUID
	ReferredID  uuid.UUID
	BonusAmount int64
	CreatedAt   time.Time
}

// NewReferralEdge validates and builds a referral edge
func NewReferralEdge(referrerID, referredID uuid.UUID, bonusAmount int64, timeProvider coreport.TimeProvider) (*ReferralEdge, error) {
	if referrerID == uuid.Nil || referredID == uuid.Nil {
		return nil, errs.ErrInvalidAccountID
	}
	if referrerID == referredID {
		return nil, errs.ErrSelfReferral
	}
	if bonusAmount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	return &ReferralEdge{
		ReferrerID:  referrerID,
		ReferredID:  referredID,
		BonusAmount: bonusAmount,
		CreatedAt:   timeProvider.Now(),
	}, nil
}
