package valueobject

import "fmt"

// Dimensions is the measured geometry of a pumpkin.
// All measurements are in centimeters.
type Dimensions struct {
	// Circumference at the widest point, in centimeters.
	Circumference float64 `json:"circumference"`

	// Height from base to stem, in centimeters.
	Height float64 `json:"height"`
}

// NewDimensions creates a new Dimensions value object.
//
// Parameters:
//   - circumference: circumference in centimeters
//   - height: height in centimeters
//
// Returns:
//   - Dimensions: new Dimensions value object
func NewDimensions(circumference, height float64) Dimensions {
	return Dimensions{
		Circumference: circumference,
		Height:        height,
	}
}

// IsEmpty checks if both measurements are zero.
func (d Dimensions) IsEmpty() bool {
	return d.Circumference == 0 && d.Height == 0
}

// String returns a formatted string representation.
//
// Returns:
//   - string: formatted dimensions (e.g., "80.0 x 20 cm")
func (d Dimensions) String() string {
	return fmt.Sprintf("%.1f x %.0f cm", d.Circumference, d.Height)
}
