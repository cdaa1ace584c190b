package dto

import (
	"time"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/entity"
)

// OpenAccountRequest represents the API request for signing up
type OpenAccountRequest struct {
	ReferralCode string `json:"referralCode" binding:"max=32"`
}

// AccountResponse represents a newly opened account.
// ReferralError is set when the account exists but the referrer could not be credited.
type AccountResponse struct {
	AccountID        string         `json:"accountId"`
	ReferralCode     string         `json:"referralCode"`
	Balance          int64          `json:"balance"`
	BalanceFormatted string         `json:"balanceFormatted"`
	Currency         string         `json:"currency"`
	CreatedAt        time.Time      `json:"createdAt"`
	ReferralError    *ErrorResponse `json:"referralError,omitempty"`
}

// NewAccountResponse builds the response for an account
func NewAccountResponse(account *entity.Account) AccountResponse {
	return AccountResponse{
		AccountID:        account.ID.String(),
		ReferralCode:     account.ReferralCode,
		Balance:          account.Balance(),
		BalanceFormatted: account.FormattedBalance(),
		Currency:         entity.Currency,
		CreatedAt:        account.CreatedAt,
	}
}

// SummaryResponse represents the account dashboard
type SummaryResponse struct {
	AccountID        string `json:"accountId"`
	Balance          int64  `json:"balance"`
	BalanceFormatted string `json:"balanceFormatted"`
	Currency         string `json:"currency"`
	PayoutEmail      string `json:"payoutEmail,omitempty"`
	ReferralCode     string `json:"referralCode"`
	ReferralCount    int64  `json:"referralCount"`
}

// NewSummaryResponse builds the response for an account summary
func NewSummaryResponse(summary *entity.AccountSummary) SummaryResponse {
	return SummaryResponse{
		AccountID:        summary.AccountID.String(),
		Balance:          summary.Balance,
		BalanceFormatted: entity.FormatMinorUnits(summary.Balance),
		Currency:         entity.Currency,
		PayoutEmail:      summary.PayoutEmail,
		ReferralCode:     summary.ReferralCode,
		ReferralCount:    summary.ReferralCount,
	}
}

// PayoutDestinationRequest represents the API request for setting the payout email
type PayoutDestinationRequest struct {
	Email string `json:"email"`
}

// PayoutDestinationResponse confirms the stored payout email
type PayoutDestinationResponse struct {
	AccountID   string `json:"accountId"`
	PayoutEmail string `json:"payoutEmail"`
}
