package ledger

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
)

// MaxEmailLength is the longest payout address accepted
const MaxEmailLength = 254

// EmailValidator validates payout destinations
type EmailValidator struct {
	validate *validator.Validate
}

// NewEmailValidator creates a new EmailValidator
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: validator.New()}
}

// Normalize trims the address and checks its syntax, returning the value to store
func (v *EmailValidator) Normalize(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: empty address", errs.ErrInvalidEmail)
	}
	if len(email) > MaxEmailLength {
		return "", fmt.Errorf("%w: longer than %d characters", errs.ErrInvalidEmail, MaxEmailLength)
	}
	if err := v.validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidEmail, email)
	}
	return email, nil
}
