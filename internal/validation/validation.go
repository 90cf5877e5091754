package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrInvalidDate = fmt.Errorf("invalid date")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, str)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDate parses a calendar day in "2006-01-02" format only.
func ParseDate(str string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s, expected YYYY-MM-DD", ErrInvalidDate, str)
	}
	return d, nil
}

// positive returns a message when d is not a usable amount, or "" when it is.
func positive(name string, d decimal.Decimal, maxScale int32) string {
	if !d.IsPositive() {
		return name + " must be greater than zero"
	}
	if -d.Exponent() > maxScale && !d.Equal(d.Round(maxScale)) {
		return fmt.Sprintf("%s supports at most %d decimal places", name, maxScale)
	}
	return ""
}

func validQuantity(d decimal.Decimal) string {
	return positive("quantity", d, ledger.QuantityScale)
}
