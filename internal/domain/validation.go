package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall  = errors.New("amount below minimum allowed")
	ErrBriefTooLong    = errors.New("brief exceeds maximum length")
)

// Validation constants
const (
	MaxBriefLength   = 4000
	MaxBookingAmount = "1000000" // 1 million, platform-wide cap per engagement
	MinBookingAmount = "0.01"
)

// Settlement currencies the platform accepts. Single-currency model: every
// wallet and negotiation settles in the same stablecoin-pegged unit.
var validCurrencies = map[string]bool{
	"USDC": true,
	"USD":  true,
}

// ValidateCurrency validates a settlement currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported settlement currency", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a booking/hold amount against platform bounds.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinBookingAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinBookingAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxBookingAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxBookingAmount)
	}

	return nil
}

// ValidateBrief validates a booking brief or project proposal.
func ValidateBrief(brief string) error {
	if len(brief) > MaxBriefLength {
		return fmt.Errorf("%w: %d characters", ErrBriefTooLong, MaxBriefLength)
	}
	return nil
}

// ValidateFeeRate validates the platform fee rate.
func ValidateFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("fee rate must be in [0, 1): %s", rate)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
