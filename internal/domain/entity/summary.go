package entity

import "github.com/google/uuid"

// AccountSummary is the read model shown on the account dashboard
type AccountSummary struct {
	AccountID     uuid.UUID `json:"accountId"`
	Balance       int64     `json:"balance"`
	PayoutEmail   string    `json:"payoutEmail,omitempty"`
	ReferralCode  string    `json:"referralCode"`
	ReferralCount int64     `json:"referralCount"`
}

// NewAccountSummary builds the summary for an account and its referral count
func NewAccountSummary(account *Account, referralCount int64) *AccountSummary {
	return &AccountSummary{
		AccountID:     account.ID,
		Balance:       account.Balance(),
		PayoutEmail:   account.PayoutEmail,
		ReferralCode:  account.ReferralCode,
		ReferralCount: referralCount,
	}
}
