package cli

import (
	"errors"

	"github.com/roach88/olive/internal/meal"
	"github.com/roach88/olive/internal/store"
)

// storeError classifies an error from the store into an ExitError.
func storeError(message string, err error) error {
	var parseErr *store.ParseError
	switch {
	case errors.As(err, &parseErr):
		return WrapExitError(ExitFailure, ErrCodeParse, message, err)
	case errors.Is(err, meal.ErrInvalidMeal):
		return WrapExitError(ExitFailure, ErrCodeInvalid, message, err)
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitFailure, ErrCodeNotFound, message, err)
	default:
		return WrapExitError(ExitCommandError, ErrCodeStorage, message, err)
	}
}

func invalidInput(message string, err error) error {
	return WrapExitError(ExitFailure, ErrCodeInvalid, message, err)
}
