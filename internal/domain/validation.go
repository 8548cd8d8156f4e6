package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxDisplayNameLength   = 255
	MinDisplayNameLength   = 1
	MaxGroupNameLength     = 255
	MaxDescriptionLength   = 1024
	MaxPayoutAddressLength = 512
)

// Currency codes are free strings in ISO-like form: letters and digits, so
// token tickers like USDC are accepted alongside ISO 4217 codes.
var currencyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return nil
}

// ValidateDisplayName validates a member display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinDisplayNameLength {
		return fmt.Errorf("%w: display name cannot be empty", ErrInvalidMember)
	}
	if len(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidMember, MaxDisplayNameLength)
	}
	return nil
}

// ValidateGroupName validates a group name
func ValidateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidGroup)
	}
	if len(name) > MaxGroupNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidGroup, MaxGroupNameLength)
	}
	return nil
}

// ValidateDescription validates a free-text expense description
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// ValidatePayoutAddress validates the opaque payout address
func ValidatePayoutAddress(address string) error {
	if len(address) > MaxPayoutAddressLength {
		return fmt.Errorf("%w: payout address exceeds %d characters", ErrInvalidMember, MaxPayoutAddressLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
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
