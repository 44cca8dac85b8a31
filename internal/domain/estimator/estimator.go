// Package estimator estimates the price of a pumpkin from its measurements.
//
// Weight is predicted by a fixed empirical linear regression over circumference
// and height (in centimeters) with one interaction term. The weight is converted
// to the unit the cost is denominated in and multiplied by the cost per unit.
//
// Every function in this package is pure: equal inputs always produce equal
// outputs and nothing is mutated.
package estimator

import (
	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
)

// Regression coefficients. The model maps centimeters to kilograms.
const (
	Intercept                = 2.971766854
	CircumferenceCoefficient = -0.017162338
	HeightCoefficient        = -0.475716357
	InteractionCoefficient   = 0.008500845
)

// WeightKg predicts the weight in kilograms of a pumpkin with the given dimensions.
// The result may be negative for small measurements; the model is only an approximation.
//
// Parameters:
//   - d: circumference and height in centimeters
//
// Returns:
//   - float64: predicted weight in kilograms
func WeightKg(d valueobject.Dimensions) float64 {
	return Intercept +
		d.Circumference*CircumferenceCoefficient +
		d.Height*HeightCoefficient +
		d.Circumference*d.Height*InteractionCoefficient
}

// Estimator computes estimated prices formatted with a currency symbol.
// The zero value is not usable; create one with New.
type Estimator struct {
	symbol string
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithCurrencySymbol sets the symbol prefixed to estimated prices.
func WithCurrencySymbol(symbol string) Option {
	return func(e *Estimator) {
		if symbol != "" {
			e.symbol = symbol
		}
	}
}

// New creates an Estimator.
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - *Estimator: the configured estimator
func New(opts ...Option) *Estimator {
	e := &Estimator{symbol: valueobject.DefaultCurrencySymbol}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Symbol returns the currency symbol used by the estimator.
func (e *Estimator) Symbol() string {
	return e.symbol
}

// Weight predicts the weight in the unit system's weight unit
// (kilograms for metric, pounds for imperial).
func (e *Estimator) Weight(state valueobject.InputState) float64 {
	return state.UnitSystem.FromKilograms(WeightKg(state.Dimensions()))
}

// Estimate computes the estimated price for state, rounded to two decimal places.
//
// Estimate never fails. Callers decide whether a state is worth estimating;
// see valueobject.InputState.Complete.
//
// Parameters:
//   - state: the inputs to estimate from
//
// Returns:
//   - valueobject.Price: weight times cost per unit, rounded
func (e *Estimator) Estimate(state valueobject.InputState) valueobject.Price {
	return valueobject.NewPrice(e.Weight(state)*state.CostPerUnit, e.symbol)
}

var defaultEstimator = New()

// Estimate computes the estimated price for state using the default currency symbol.
func Estimate(state valueobject.InputState) valueobject.Price {
	return defaultEstimator.Estimate(state)
}
