package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount         = 4002
	CodeInvalidAccountID      = 4003
	CodeDuplicateReferral     = 4004
	CodeConstraintViolation   = 4005
	CodeSelfReferral          = 4006
	CodeInvalidEmail          = 4007
	CodeNoPayoutEmail         = 4008
	CodeBelowMinimum          = 4009
	CodePayoutNotPending      = 4010
	CodeDuplicateAccount      = 4011
	CodeInvalidRequest        = 4012
	CodeUnauthorized          = 4013
	CodeReferralNotAttributed = 4014
	CodeAccountNotFound       = 4040
	CodeReferralCodeNotFound  = 4041
	CodePayoutNotFound        = 4042
	CodeConflict              = 4090

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeTransientIO    = 5030
)

// Base error types
var (
	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = fmt.Errorf("account not found: %w", ErrNotFound)

	// ErrReferralCodeNotFound is returned when no account owns the given referral code
	ErrReferralCodeNotFound = fmt.Errorf("referral code not found: %w", ErrNotFound)

	// ErrPayoutNotFound is returned when the requested payout request doesn't exist
	ErrPayoutNotFound = fmt.Errorf("payout request not found: %w", ErrNotFound)

	// ErrDuplicateReferral is returned when the referred account was already attributed
	ErrDuplicateReferral = errors.New("account has already been referred")

	// ErrReferralNotAttributed is returned when the referred account did not sign up with the referrer's code
	ErrReferralNotAttributed = errors.New("account was not opened with the referrer's code")

	// ErrSelfReferral is returned when an account tries to refer itself
	ErrSelfReferral = errors.New("account cannot refer itself")

	// ErrInvalidEmail is returned when a payout destination is not a valid address
	ErrInvalidEmail = errors.New("invalid payout email")

	// ErrNoPayoutEmail is returned when a payout is requested without a destination
	ErrNoPayoutEmail = errors.New("payout email is not set")

	// ErrBelowMinimum is returned when the balance is below the payout threshold
	ErrBelowMinimum = errors.New("balance is below the minimum payout")

	// ErrConflict is returned when a concurrent update won the race for the same account
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrTransientIO is returned when the data store could not be reached in time
	ErrTransientIO = errors.New("transient data store failure")

	// ErrInvalidAmount is returned when a monetary amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidAccountID is returned when an account identifier is empty or malformed
	ErrInvalidAccountID = errors.New("invalid account ID")

	// ErrPayoutNotPending is returned when resolving a payout that already reached a terminal state
	ErrPayoutNotPending = errors.New("payout request is not pending")

	// ErrInvalidPayoutStatus is returned when a resolution outcome is not settled or rejected
	ErrInvalidPayoutStatus = errors.New("invalid payout status")

	// ErrDuplicateAccount is returned when trying to open an account that already exists
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when the caller identity cannot be established
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrReferralCodeNotFound):
		return CodeReferralCodeNotFound
	case errors.Is(err, ErrPayoutNotFound):
		return CodePayoutNotFound
	case errors.Is(err, ErrNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrDuplicateReferral):
		return CodeDuplicateReferral
	case errors.Is(err, ErrSelfReferral):
		return CodeSelfReferral
	case errors.Is(err, ErrReferralNotAttributed):
		return CodeReferralNotAttributed
	case errors.Is(err, ErrInvalidEmail):
		return CodeInvalidEmail
	case errors.Is(err, ErrNoPayoutEmail):
		return CodeNoPayoutEmail
	case errors.Is(err, ErrBelowMinimum):
		return CodeBelowMinimum
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrTransientIO):
		return CodeTransientIO
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidAccountID):
		return CodeInvalidAccountID
	case errors.Is(err, ErrPayoutNotPending), errors.Is(err, ErrInvalidPayoutStatus):
		return CodePayoutNotPending
	case errors.Is(err, ErrDuplicateAccount):
		return CodeDuplicateAccount
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalServer
	}
}

// IsRetryable reports whether the caller may retry the failed operation unchanged.
// Only conflicts and transient store failures qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTransientIO)
}

// BelowMinimumError provides detailed error information for an ineligible payout
type BelowMinimumError struct {
	AccountID string
	Balance   int64
	Minimum   int64
}

// Error implements the error interface
func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("balance below minimum payout for account %s: balance %d, minimum %d",
		e.AccountID, e.Balance, e.Minimum)
}

// Is checks if the target error is an ErrBelowMinimum
func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimum
}

// LogFields returns a map of fields for structured logging
func (e *BelowMinimumError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "below_minimum",
		"account_id": e.AccountID,
		"balance":    e.Balance,
		"minimum":    e.Minimum,
		"error_code": CodeBelowMinimum,
	}
}

// NewBelowMinimumError creates a new detailed below-minimum error
func NewBelowMinimumError(accountID string, balance, minimum int64) error {
	return &BelowMinimumError{AccountID: accountID, Balance: balance, Minimum: minimum}
}

// DuplicateReferralError provides detailed information about a repeated referral attribution
type DuplicateReferralError struct {
	ReferrerID string
	ReferredID string
}

// Error implements the error interface
func (e *DuplicateReferralError) Error() string {
	return fmt.Sprintf("duplicate referral: account %s was already referred (attempted by %s)",
		e.ReferredID, e.ReferrerID)
}

// Is checks if the target error is an ErrDuplicateReferral
func (e *DuplicateReferralError) Is(target error) bool {
	return target == ErrDuplicateReferral
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateReferralError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "duplicate_referral",
		"referrer_id": e.ReferrerID,
		"referred_id": e.ReferredID,
		"error_code":  CodeDuplicateReferral,
	}
}

// NewDuplicateReferralError creates a new detailed duplicate referral error
func NewDuplicateReferralError(referrerID, referredID string) error {
	return &DuplicateReferralError{ReferrerID: referrerID, ReferredID: referredID}
}

// LedgerError wraps a failure of a ledger operation with the context it happened in
type LedgerError struct {
	Operation string
	AccountID string
	Err       error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s failed for account %s: %v", e.Operation, e.AccountID, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"operation":  e.Operation,
		"account_id": e.AccountID,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
		"retryable":  IsRetryable(e.Err),
	}
}

// NewLedgerError creates a ledger error for the given operation
func NewLedgerError(operation, accountID string, err error) error {
	return &LedgerError{Operation: operation, AccountID: accountID, Err: err}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateReferralError checks if the error is a duplicate referral error
func IsDuplicateReferralError(err error) bool {
	return errors.Is(err, ErrDuplicateReferral)
}

// IsConflictError checks if the error is a concurrent modification conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsTransientError checks if the error is a transient store failure
func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransientIO)
}
