// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
// They encapsulate validation logic and ensure data integrity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Self-validation: They validate their own data upon creation.
//   - Side-effect free: Methods return new instances rather than modifying state
package valueobject

import (
	"errors"
	"strings"
)

// UnitSystem selects the weight unit the cost per unit is denominated in.
// Geometric inputs are always centimeters regardless of the unit system.
type UnitSystem string

// Supported unit systems.
const (
	Metric   UnitSystem = "metric"   // cost per kilogram
	Imperial UnitSystem = "imperial" // cost per pound
)

// PoundsPerKilogram converts kilograms to pounds.
const PoundsPerKilogram = 2.20462

// ErrInvalidUnitSystem is returned when a unit system name is not recognized.
var ErrInvalidUnitSystem = errors.New("invalid unit system")

// ParseUnitSystem parses a unit system name. Matching is case-insensitive
// and ignores surrounding whitespace.
//
// Parameters:
//   - name: the unit system name (e.g., "metric", "Imperial")
//
// Returns:
//   - UnitSystem: the parsed unit system
//   - error: ErrInvalidUnitSystem if the name is not recognized
func ParseUnitSystem(name string) (UnitSystem, error) {
	u := UnitSystem(strings.ToLower(strings.TrimSpace(name)))
	if !u.IsValid() {
		return "", ErrInvalidUnitSystem
	}
	return u, nil
}

// IsValid reports whether u is a supported unit system.
func (u UnitSystem) IsValid() bool {
	return u == Metric || u == Imperial
}

// WeightUnit returns the short weight unit label ("kg" or "lb").
func (u UnitSystem) WeightUnit() string {
	if u == Imperial {
		return "lb"
	}
	return "kg"
}

// CostLabel returns the label applied to the cost per unit field.
func (u UnitSystem) CostLabel() string {
	return "¢/" + u.WeightUnit()
}

// FromKilograms converts a weight in kilograms into the unit system's weight unit.
//
// Parameters:
//   - kg: weight in kilograms
//
// Returns:
//   - float64: weight in kilograms (metric) or pounds (imperial)
func (u UnitSystem) FromKilograms(kg float64) float64 {
	if u == Imperial {
		return kg * PoundsPerKilogram
	}
	return kg
}

// String implements fmt.Stringer.
func (u UnitSystem) String() string {
	return string(u)
}
