package meal

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidMeal is matched by every *ValidationError via errors.Is.
var ErrInvalidMeal = errors.New("invalid meal")

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationError describes the first field of a meal that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is reports ErrInvalidMeal as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidMeal
}

// IsISODate reports whether s has the YYYY-MM-DD shape. Calendar validity is
// not checked.
func IsISODate(s string) bool {
	return isoDatePattern.MatchString(s)
}

// IsClockTime reports whether s is a 24-hour HH:MM time.
func IsClockTime(s string) bool {
	return clockTimePattern.MatchString(s)
}

// IsValidCalories reports whether c is a finite, strictly positive amount.
func IsValidCalories(c float64) bool {
	return !math.IsNaN(c) && !math.IsInf(c, 0) && c > 0
}

// NormalizeName trims s and converts it to Unicode NFC so that names typed
// with different compositions group together.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateEntry checks the user-editable fields of a meal. An empty time is
// allowed and means DefaultTime.
func ValidateEntry(date, name string, calories float64, clock string) error {
	if !IsISODate(date) {
		return &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not YYYY-MM-DD", date)}
	}
	if err := ValidateEdit(name, calories, clock); err != nil {
		return err
	}
	return nil
}

// ValidateEdit checks the fields an update may change.
func ValidateEdit(name string, calories float64, clock string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !IsValidCalories(calories) {
		return &ValidationError{Field: "calories", Message: "must be a positive number"}
	}
	if clock != "" && !IsClockTime(clock) {
		return &ValidationError{Field: "time", Message: fmt.Sprintf("%q is not HH:MM", clock)}
	}
	return nil
}
