package dto

import (
	"time"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// CreditReferralRequest represents the API request for crediting a referral
type CreditReferralRequest struct {
	ReferredID string `json:"referredId" binding:"required,uuid"`
}

// ReferralResponse represents a referral edge
type ReferralResponse struct {
	ReferrerID     string    `json:"referrerId"`
	ReferredID     string    `json:"referredId"`
	Bonus          int64     `json:"bonus"`
	BonusFormatted string    `json:"bonusFormatted"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewReferralResponse builds the response for a referral edge
func NewReferralResponse(edge *entity.ReferralEdge) ReferralResponse {
	return ReferralResponse{
		ReferrerID:     edge.ReferrerID.String(),
		ReferredID:     edge.ReferredID.String(),
		Bonus:          edge.BonusAmount,
		BonusFormatted: entity.FormatMinorUnits(edge.BonusAmount),
		CreatedAt:      edge.CreatedAt,
	}
}

// ReferralListResponse wraps a list of referral edges
type ReferralListResponse struct {
	Referrals []ReferralResponse `json:"referrals"`
}
