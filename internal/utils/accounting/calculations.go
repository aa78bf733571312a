package accounting

import (
	"fmt"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/cliquepay/cliquepay_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmount caps accepted amounts well inside the NUMERIC(14,2) money columns.
var MaxAmount = decimal.RequireFromString("9999999999.99")

var hundred = decimal.NewFromInt(100)

// ValidateAmount checks that amount is positive, fits the column and has at
// most two decimal places. field names the input in the returned error.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, field)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s must not exceed %s", apperrors.ErrValidation, field, MaxAmount.StringFixed(domain.MoneyPlaces))
	}
	if !amount.Equal(amount.Truncate(domain.MoneyPlaces)) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", apperrors.ErrValidation, field, domain.MoneyPlaces)
	}
	return nil
}

// toCents converts a two-place amount into an integral decimal of cents.
func toCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred).Truncate(0)
}

// fromCents converts integral cents back into a two-place amount.
func fromCents(cents decimal.Decimal) decimal.Decimal {
	return cents.Div(hundred).Round(domain.MoneyPlaces)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
