// Package entity contains the core business entities of the domain layer.
package entity

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hapkiduki/pumpkin-price/internal/domain/estimator"
	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
)

// DisplayState is the visibility of the estimated price.
type DisplayState string

const (
	DisplayHidden DisplayState = "hidden" // some input is missing, invalid or not positive
	DisplayShown  DisplayState = "shown"  // all inputs are valid and the estimate is positive
)

// PriceDisplay is the derived output of the form.
type PriceDisplay struct {
	// State is Hidden or Shown
	State DisplayState

	// Price is the estimate; zero while Hidden
	Price valueobject.Price

	// Weight is the predicted weight in the unit system's unit; zero while Hidden
	Weight float64
}

// Visible reports whether the price is shown.
func (d PriceDisplay) Visible() bool {
	return d.State == DisplayShown
}

// String returns the formatted price, or an empty string while Hidden.
func (d PriceDisplay) String() string {
	if !d.Visible() {
		return ""
	}
	return d.Price.String()
}

// EventKind identifies what changed in the form.
type EventKind string

const (
	EventFieldChanged      EventKind = "field_changed"
	EventUnitSystemChanged EventKind = "unit_system_changed"
	EventReset             EventKind = "reset"
)

// Event describes a single edit applied to the calculator.
type Event struct {
	// Kind of edit
	Kind EventKind

	// Field that was edited (EventFieldChanged only)
	Field Field

	// Raw text entered (EventFieldChanged only)
	Raw string

	// Value parsed from Raw; NaN when the text was not a number
	Value float64

	// UnitSystem selected (EventUnitSystemChanged only)
	UnitSystem valueobject.UnitSystem

	// Previous display state, before the edit
	Previous DisplayState
}

// Snapshot is a consistent copy of the calculator state.
type Snapshot struct {
	// SessionID identifies the form session
	SessionID uuid.UUID

	// Input is the current input state
	Input valueobject.InputState

	// Display is the price derived from Input
	Display PriceDisplay

	// Revision counts applied edits
	Revision uint64

	// UpdatedAt is when the last edit was applied
	UpdatedAt time.Time
}

// Observer is notified synchronously after every edit.
// Observers must not edit the calculator they observe.
type Observer func(Event, Snapshot)

// Calculator is a single form session. It owns the input state and keeps the
// displayed price consistent with it after every edit.
//
// Edits are applied one at a time: each edit updates the state, recomputes the
// price and notifies observers before the next edit starts.
//
// Example usage:
//
//	calc := entity.NewCalculator()
//	calc.SetField(entity.FieldCircumference, "80")
//	snap, _ := calc.SetField(entity.FieldHeight, "20")
//	snap.Display.String() // "$3.41"
type Calculator struct {
	// edit serializes edits including observer notification
	edit sync.Mutex

	// mu guards the fields below
	mu        sync.RWMutex
	id        uuid.UUID
	defaults  valueobject.InputState
	state     valueobject.InputState
	display   PriceDisplay
	revision  uint64
	updatedAt time.Time

	estimator *estimator.Estimator
	observers []Observer
	now       func() time.Time
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithDefaults sets the input state the session starts with and resets to.
func WithDefaults(defaults valueobject.InputState) CalculatorOption {
	return func(c *Calculator) {
		c.defaults = defaults
	}
}

// WithEstimator sets the estimator used to derive prices.
func WithEstimator(e *estimator.Estimator) CalculatorOption {
	return func(c *Calculator) {
		if e != nil {
			c.estimator = e
		}
	}
}

// WithClock overrides the clock used for UpdatedAt.
func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCalculator creates a new form session with the default input state
// (cost 0.60, no measurements, metric).
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - *Calculator: the new session
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		id:        uuid.New(),
		defaults:  valueobject.DefaultInputState(),
		estimator: estimator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.defaults.UnitSystem.IsValid() {
		c.defaults.UnitSystem = valueobject.Metric
	}

	c.state = c.defaults
	c.updatedAt = c.now()
	c.recompute()
	return c
}

// ID returns the session identifier.
func (c *Calculator) ID() uuid.UUID {
	return c.id
}

// Subscribe registers an observer for subsequent edits.
func (c *Calculator) Subscribe(o Observer) {
	c.edit.Lock()
	defer c.edit.Unlock()
	c.observers = append(c.observers, o)
}

// Snapshot returns a copy of the current state.
func (c *Calculator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// SetField applies raw text entered into a numeric field.
//
// Text that is not a finite number, or a value less than or equal to zero,
// hides the price immediately. The price is then recomputed and shown only if
// all three fields are valid and positive.
//
// Parameters:
//   - field: the edited field
//   - raw: the text as entered
//
// Returns:
//   - Snapshot: the state after the edit
//   - error: ErrUnknownField if field is not a form input
func (c *Calculator) SetField(field Field, raw string) (Snapshot, error) {
	if !field.IsValid() {
		return c.Snapshot(), ErrUnknownField
	}
	v := ParseMeasurement(raw)
	return c.apply(Event{
		Kind:  EventFieldChanged,
		Field: field,
		Raw:   raw,
		Value: v,
	}, func() {
		field.set(&c.state, v)
		if !(v > 0) {
			c.hide()
		}
	}), nil
}

// SetUnitSystem switches between metric and imperial. Numeric fields keep
// their values; only the conversion and the cost label change.
//
// Parameters:
//   - unit: the selected unit system
//
// Returns:
//   - Snapshot: the state after the edit
//   - error: ErrUnknownUnitSystem if unit is not supported
func (c *Calculator) SetUnitSystem(unit valueobject.UnitSystem) (Snapshot, error) {
	if !unit.IsValid() {
		return c.Snapshot(), ErrUnknownUnitSystem
	}
	return c.apply(Event{Kind: EventUnitSystemChanged, UnitSystem: unit}, func() {
		c.state.UnitSystem = unit
	}), nil
}

// Reset restores the state the session started with.
func (c *Calculator) Reset() Snapshot {
	return c.apply(Event{Kind: EventReset}, func() {
		c.state = c.defaults
		c.hide()
	})
}

// apply runs mutate, recomputes the price and notifies observers.
func (c *Calculator) apply(ev Event, mutate func()) Snapshot {
	c.edit.Lock()
	defer c.edit.Unlock()

	c.mu.Lock()
	ev.Previous = c.display.State
	mutate()
	c.recompute()
	c.revision++
	c.updatedAt = c.now()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	for _, o := range c.observers {
		o(ev, snap)
	}
	return snap
}

// recompute derives the display from the current state.
// The estimator runs only when every numeric field is finite and positive.
func (c *Calculator) recompute() {
	if !c.state.Complete() {
		c.hide()
		return
	}

	price := c.estimator.Estimate(c.state)
	if !price.IsPositive() {
		c.hide()
		return
	}
	c.display = PriceDisplay{
		State:  DisplayShown,
		Price:  price,
		Weight: c.estimator.Weight(c.state),
	}
}

func (c *Calculator) hide() {
	c.display = PriceDisplay{
		State: DisplayHidden,
		Price: valueobject.ZeroPrice(c.estimator.Symbol()),
	}
}

func (c *Calculator) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: c.id,
		Input:     c.state,
		Display:   c.display,
		Revision:  c.revision,
		UpdatedAt: c.updatedAt,
	}
}
