package dto

import (
	"time"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// PayoutResponse represents a payout request
type PayoutResponse struct {
	PayoutID         string     `json:"payoutId"`
	AccountID        string     `json:"accountId"`
	Amount           int64      `json:"amount"`
	AmountFormatted  string     `json:"amountFormatted"`
	Currency         string     `json:"currency"`
	DestinationEmail string     `json:"destinationEmail"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
}

// NewPayoutResponse builds the response for a payout request
func NewPayoutResponse(p *entity.PayoutRequest) PayoutResponse {
	return PayoutResponse{
		PayoutID:         p.ID.String(),
		AccountID:        p.AccountID.String(),
		Amount:           p.AmountRequested,
		AmountFormatted:  p.FormattedAmount(),
		Currency:         entity.Currency,
		DestinationEmail: p.DestinationEmail,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		ResolvedAt:       p.ResolvedAt,
	}
}

// PayoutListResponse wraps a list of payout requests
type PayoutListResponse struct {
	Payouts []PayoutResponse `json:"payouts"`
}
