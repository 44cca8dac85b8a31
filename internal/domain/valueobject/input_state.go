package valueobject

import "math"

// DefaultCostPerUnit is the cost per unit a new form session starts with.
const DefaultCostPerUnit = 0.60

// InputState is the full set of values the price estimate is derived from.
// A field that could not be parsed holds NaN.
type InputState struct {
	// CostPerUnit is the cost per kilogram (metric) or per pound (imperial)
	CostPerUnit float64

	// Circumference in centimeters
	Circumference float64

	// Height in centimeters
	Height float64

	// UnitSystem selects the weight unit CostPerUnit is denominated in
	UnitSystem UnitSystem
}

// DefaultInputState returns the state a session starts with:
// cost 0.60, no measurements, metric units.
func DefaultInputState() InputState {
	return InputState{
		CostPerUnit: DefaultCostPerUnit,
		UnitSystem:  Metric,
	}
}

// Dimensions returns the geometric part of the state.
func (s InputState) Dimensions() Dimensions {
	return NewDimensions(s.Circumference, s.Height)
}

// Complete reports whether all three numeric fields are finite and strictly positive.
// Only a complete state may be estimated.
func (s InputState) Complete() bool {
	return isPositiveFinite(s.CostPerUnit) &&
		isPositiveFinite(s.Circumference) &&
		isPositiveFinite(s.Height)
}

// HasZero reports whether any numeric field is exactly zero.
func (s InputState) HasZero() bool {
	return s.CostPerUnit == 0 || s.Circumference == 0 || s.Height == 0
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
