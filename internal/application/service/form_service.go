// Package service contains the application services that drive the domain.
package service

import (
	"context"
	"fmt"
	"math"

	"github.com/hapkiduki/pumpkin-price/internal/application/port"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
)

// Metric names recorded by the form service.
const (
	MetricEdits          = "form_edits_total"
	MetricPriceHidden    = "price_hidden_total"
	MetricPriceShown     = "price_shown_total"
	MetricEstimatedPrice = "estimated_price"
	MetricPriceVisible   = "price_visible"
)

// FormService exposes a calculator session to the interface layer.
// It translates names coming from the outside into domain values and
// reports every edit to the logger and metrics.
type FormService struct {
	calc    *entity.Calculator
	logger  port.Logger
	metrics port.Metrics
}

// NewFormService creates a FormService for calc and subscribes to its edits.
//
// Parameters:
//   - calc: the form session
//   - logger: structured logger
//   - metrics: metrics recorder (nil discards metrics)
//
// Returns:
//   - *FormService: the service
func NewFormService(calc *entity.Calculator, logger port.Logger, metrics port.Metrics) *FormService {
	if metrics == nil {
		metrics = port.NopMetrics{}
	}
	s := &FormService{
		calc:    calc,
		logger:  logger.With("session_id", calc.ID().String()),
		metrics: metrics,
	}
	calc.Subscribe(s.observe)
	return s
}

// SessionID returns the identifier of the underlying session.
func (s *FormService) SessionID() string {
	return s.calc.ID().String()
}

// Snapshot returns the current form state.
func (s *FormService) Snapshot(_ context.Context) entity.Snapshot {
	return s.calc.Snapshot()
}

// Fields returns the input metadata for the current unit system.
func (s *FormService) Fields(_ context.Context) []entity.FieldSpec {
	return entity.FieldSpecs(s.calc.Snapshot().Input.UnitSystem)
}

// UpdateField applies raw text to the named field.
//
// Parameters:
//   - ctx: request context (used for log correlation)
//   - name: field name (cost, circumference, height)
//   - raw: text as entered
//
// Returns:
//   - entity.Snapshot: the state after the edit
//   - error: wraps entity.ErrUnknownField if name is not a field
func (s *FormService) UpdateField(ctx context.Context, name, raw string) (entity.Snapshot, error) {
	field, err := entity.ParseField(name)
	if err != nil {
		s.logger.WithContext(ctx).Warn("Rejected edit", "field", name, "error", err)
		return s.calc.Snapshot(), err
	}

	snap, err := s.calc.SetField(field, raw)
	if err != nil {
		return snap, fmt.Errorf("update %s: %w", field, err)
	}
	s.logger.WithContext(ctx).Debug("Field updated",
		"field", field.String(),
		"raw", raw,
		"state", string(snap.Display.State),
	)
	return snap, nil
}

// SwitchUnitSystem selects the named unit system.
//
// Parameters:
//   - ctx: request context (used for log correlation)
//   - name: unit system name (metric, imperial)
//
// Returns:
//   - entity.Snapshot: the state after the edit
//   - error: wraps entity.ErrUnknownUnitSystem if name is not recognized
func (s *FormService) SwitchUnitSystem(ctx context.Context, name string) (entity.Snapshot, error) {
	unit, err := valueobject.ParseUnitSystem(name)
	if err != nil {
		s.logger.WithContext(ctx).Warn("Rejected unit system", "unit_system", name)
		return s.calc.Snapshot(), fmt.Errorf("%w: %q", err, name)
	}

	snap, err := s.calc.SetUnitSystem(unit)
	if err != nil {
		return snap, fmt.Errorf("switch unit system: %w", err)
	}
	s.logger.WithContext(ctx).Debug("Unit system switched",
		"unit_system", unit.String(),
		"state", string(snap.Display.State),
	)
	return snap, nil
}

// Reset restores the session defaults.
func (s *FormService) Reset(ctx context.Context) entity.Snapshot {
	snap := s.calc.Reset()
	s.logger.WithContext(ctx).Info("Form reset")
	return snap
}

// observe records metrics for every edit applied to the calculator.
func (s *FormService) observe(ev entity.Event, snap entity.Snapshot) {
	tags := map[string]string{"kind": string(ev.Kind)}
	s.metrics.Counter(MetricEdits, 1, tags)

	unit := map[string]string{"unit_system": snap.Input.UnitSystem.String()}
	switch {
	case snap.Display.Visible():
		s.metrics.Counter(MetricPriceShown, 1, unit)
		s.metrics.Histogram(MetricEstimatedPrice, snap.Display.Price.Float(), unit)
		s.metrics.Gauge(MetricPriceVisible, 1, nil)
	case ev.Previous == entity.DisplayShown:
		s.metrics.Counter(MetricPriceHidden, 1, map[string]string{"reason": hideReason(ev)})
		s.metrics.Gauge(MetricPriceVisible, 0, nil)
		s.logger.Debug("Price hidden", "kind", string(ev.Kind), "field", ev.Field.String())
	default:
		s.metrics.Gauge(MetricPriceVisible, 0, nil)
	}
}

// hideReason classifies why an edit hid a visible price.
func hideReason(ev entity.Event) string {
	switch {
	case ev.Kind == entity.EventReset:
		return "reset"
	case ev.Kind != entity.EventFieldChanged:
		return "estimate"
	case math.IsNaN(ev.Value):
		return "invalid"
	case ev.Value <= 0:
		return "not_positive"
	}
	return "estimate"
}
