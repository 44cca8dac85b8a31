package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
)

// Field identifies one of the numeric inputs of the form.
type Field string

const (
	FieldCost          Field = "cost"          // cost per kilogram or pound
	FieldCircumference Field = "circumference" // centimeters
	FieldHeight        Field = "height"        // centimeters
)

// Fields lists the numeric inputs in display order.
var Fields = []Field{FieldCost, FieldCircumference, FieldHeight}

// ParseField resolves an input name to a Field.
//
// Parameters:
//   - name: the input name (case-insensitive)
//
// Returns:
//   - Field: the matching field
//   - error: ErrUnknownField if no field has that name
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// IsValid reports whether f names a form input.
func (f Field) IsValid() bool {
	switch f {
	case FieldCost, FieldCircumference, FieldHeight:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (f Field) String() string {
	return string(f)
}

// ValueOf reads the field from state.
func (f Field) ValueOf(s valueobject.InputState) float64 {
	switch f {
	case FieldCost:
		return s.CostPerUnit
	case FieldCircumference:
		return s.Circumference
	case FieldHeight:
		return s.Height
	}
	return math.NaN()
}

// set writes v into the field of state.
func (f Field) set(s *valueobject.InputState, v float64) {
	switch f {
	case FieldCost:
		s.CostPerUnit = v
	case FieldCircumference:
		s.Circumference = v
	case FieldHeight:
		s.Height = v
	}
}

// FieldSpec describes how a numeric input is entered.
type FieldSpec struct {
	// Name of the field
	Name Field `json:"name"`

	// Unit label shown next to the input
	Unit string `json:"unit"`

	// Step is the input granularity
	Step float64 `json:"step"`

	// Min is the smallest accepted value
	Min float64 `json:"min"`
}

// FieldSpecs returns the input metadata for the given unit system.
// Only the cost label depends on the unit system.
func FieldSpecs(unit valueobject.UnitSystem) []FieldSpec {
	return []FieldSpec{
		{Name: FieldCost, Unit: unit.CostLabel(), Step: 0.01, Min: 0},
		{Name: FieldCircumference, Unit: "cm", Step: 0.1, Min: 0},
		{Name: FieldHeight, Unit: "cm", Step: 1, Min: 0},
	}
}

// ParseMeasurement converts raw input text into a number.
// Text that is empty, not a number, or not finite yields NaN.
//
// Parameters:
//   - raw: the text as entered
//
// Returns:
//   - float64: the parsed value, or NaN
func ParseMeasurement(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
