package errors

import (
	"math"
	"regexp"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values for the named setting.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative or non-finite values for the named setting.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be >= 0, got %v", name, v)
	}
	return nil
}

// cartIDRegex matches cart identifiers: UUIDs or short slugs.
var cartIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateCartID validates a cart identifier used in URLs, file names and
// store keys. IDs must be 1-64 characters of letters, digits, '-' or '_'.
func ValidateCartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "cart id cannot be empty")
	}
	if !cartIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid cart id: %q", id)
	}
	return nil
}

// ValidateItemName validates an item name. Names are free text but must be
// non-empty, at most 128 characters and free of control characters.
func ValidateItemName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "item name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "item name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item name contains invalid control characters")
		}
	}
	return nil
}
