package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// ReferralCodeLength is the number of characters in a generated referral code
const ReferralCodeLength = 8

// Account represents a ledger account owned by one authenticated user
type Account struct {
	ID           uuid.UUID  // Identifier handed over by the identity provider at signup
	ReferralCode string     // Unique code other users sign up with
	PayoutEmail  string     // Payout destination, empty when not set
	ReferredBy   *uuid.UUID // Owner of the referral code used at signup, nil when none
	balance      int64      // Balance in CAD minor units, only changed through the ledger
	Version      int64      // Bumped on every update, used for compare-and-swap writes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates a new account credited with the signup bonus
func NewAccount(id uuid.UUID, referralCode string, signupBonus int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if id == uuid.Nil {
		return nil, errs.ErrInvalidAccountID
	}
	if signupBonus < 0 {
		return nil, errs.ErrInvalidAmount
	}
	if referralCode == "" {
		referralCode = NewReferralCode()
	}

	now := timeProvider.Now()
	return &Account{
		ID:           id,
		ReferralCode: referralCode,
		balance:      signupBonus,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AttributeTo records the referrer whose code was used to open the account
func (a *Account) AttributeTo(referrerID uuid.UUID) error {
	if referrerID == uuid.Nil {
		return errs.ErrInvalidAccountID
	}
	if referrerID == a.ID {
		return errs.ErrSelfReferral
	}
	a.ReferredBy = &referrerID
	return nil
}

// WasReferredBy reports whether the account was opened with referrerID's code
func (a *Account) WasReferredBy(referrerID uuid.UUID) bool {
	return a.ReferredBy != nil && *a.ReferredBy == referrerID
}

// NewReferralCode generates a random upper-case referral code
func NewReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:ReferralCodeLength])
}

// NormalizeReferralCode trims and upper-cases a user supplied referral code
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Balance returns the current balance in minor units
func (a *Account) Balance() int64 {
	return a.balance
}

// FormattedBalance returns the balance as a string with 2 decimal places
func (a *Account) FormattedBalance() string {
	return FormatMinorUnits(a.balance)
}

// SetBalance updates the balance directly (for repositories rehydrating stored rows)
func (a *Account) SetBalance(balance int64) {
	a.balance = balance
}

// HasPayoutEmail reports whether a payout destination has been set
func (a *Account) HasPayoutEmail() bool {
	return a.PayoutEmail != ""
}

// CheckPayoutEligibility reports why the account cannot request a payout, or nil when it can.
// The balance threshold is checked before the destination.
func (a *Account) CheckPayoutEligibility(minimumPayout int64) error {
	if a.balance < minimumPayout {
		return errs.NewBelowMinimumError(a.ID.String(), a.balance, minimumPayout)
	}
	if !a.HasPayoutEmail() {
		return errs.ErrNoPayoutEmail
	}
	return nil
}
