package valueobject

import (
	"math"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of fractional digits a price is rounded and displayed to.
const PricePlaces = 2

// DefaultCurrencySymbol is prefixed to formatted prices when none is configured.
const DefaultCurrencySymbol = "$"

// Price represents an estimated price with its display currency symbol.
// The amount is always rounded to PricePlaces decimal places, ties away from zero.
//
// Example usage:
//
//	price := valueobject.NewPrice(3.411483, "$")
//	price.String() // "$3.41"
type Price struct {
	// Amount rounded to two decimal places
	Amount decimal.Decimal `json:"amount"`

	// Symbol is the currency symbol used when formatting
	Symbol string `json:"symbol"`
}

// NewPrice creates a Price from a raw amount, rounding it to two decimal places.
// Non-finite amounts cannot be represented and produce a zero price.
//
// Parameters:
//   - amount: the unrounded amount
//   - symbol: currency symbol (empty uses DefaultCurrencySymbol)
//
// Returns:
//   - Price: the rounded price
func NewPrice(amount float64, symbol string) Price {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{Amount: decimal.Zero, Symbol: symbol}
	}
	return Price{
		Amount: decimal.NewFromFloat(amount).Round(PricePlaces),
		Symbol: symbol,
	}
}

// ZeroPrice returns a zero price with the given currency symbol.
func ZeroPrice(symbol string) Price {
	return NewPrice(0, symbol)
}

// IsZero checks if the price amount is zero.
func (p Price) IsZero() bool {
	return p.Amount.IsZero()
}

// IsPositive checks if the price amount is greater than zero.
func (p Price) IsPositive() bool {
	return p.Amount.IsPositive()
}

// Float returns the rounded amount as a float64.
func (p Price) Float() float64 {
	return p.Amount.InexactFloat64()
}

// Equals checks if two prices have the same amount and symbol.
func (p Price) Equals(other Price) bool {
	return p.Amount.Equal(other.Amount) && p.Symbol == other.Symbol
}

// FixedAmount returns the amount with exactly two fractional digits (e.g., "3.41").
func (p Price) FixedAmount() string {
	return p.Amount.StringFixed(PricePlaces)
}

// String returns the price formatted with its currency symbol.
//
// Returns:
//   - string: formatted price (e.g., "$3.41", "-$0.67")
func (p Price) String() string {
	if p.Amount.IsNegative() {
		return "-" + p.Symbol + p.Amount.Abs().StringFixed(PricePlaces)
	}
	return p.Symbol + p.FixedAmount()
}
