package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/referral-ledger/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for CAD amounts
const MaxDecimalPlaces = 2

// Currency is the only currency the ledger holds
const Currency = "CAD"

// ParseMajorUnits converts a dollar amount such as "10.00" or "7.5" into minor units.
// Negative values, malformed input and more than two decimal places are rejected.
func ParseMajorUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: amount cannot be negative", errs.ErrInvalidAmount)
	}
	if !value.Equal(value.Truncate(MaxDecimalPlaces)) {
		return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	minor := value.Shift(MaxDecimalPlaces)
	if !minor.IsInteger() || minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("%w: amount out of range", errs.ErrInvalidAmount)
	}
	return minor.IntPart(), nil
}

// FormatMinorUnits renders minor units as a fixed two-decimal string, e.g. 1015 becomes "10.15"
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}
