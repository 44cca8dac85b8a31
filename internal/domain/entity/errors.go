package entity

import (
	"errors"

	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
)

// Calculator errors are returned for requests the form cannot express.
// Invalid numeric text is never an error; it hides the price instead.
var (
	// ErrUnknownField is returned when an edit names a field the form does not have.
	ErrUnknownField = errors.New("unknown form field")

	// ErrUnknownUnitSystem is returned when a unit system selection is not recognized.
	ErrUnknownUnitSystem = valueobject.ErrInvalidUnitSystem
)

// IsValidationError checks if the error was caused by a malformed edit.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the edit named an unknown field or unit system
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrUnknownUnitSystem)
}
