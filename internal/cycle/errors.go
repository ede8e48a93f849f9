package cycle

import (
	"errors"
	"fmt"
)

// ValidationError reports client input the core refuses to work with: a
// month outside 1..12, a malformed date literal, an unknown flow intensity
// or an end date before its start.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateMonth checks a calendar request before any date is built from it.
func ValidateMonth(year, month int) error {
	if month < 1 || month > 12 {
		return &ValidationError{Field: "month", Value: month, Reason: "must be between 1 and 12"}
	}
	if year < MinYear || year > MaxYear {
		return &ValidationError{Field: "year", Value: year, Reason: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	}
	return nil
}
