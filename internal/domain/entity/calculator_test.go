package entity

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/domain/estimator"
	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, c *Calculator, cost, circumference, height string) Snapshot {
	t.Helper()
	_, err := c.SetField(FieldCost, cost)
	require.NoError(t, err)
	_, err = c.SetField(FieldCircumference, circumference)
	require.NoError(t, err)
	snap, err := c.SetField(FieldHeight, height)
	require.NoError(t, err)
	return snap
}

func TestNewCalculator_Defaults(t *testing.T) {
	c := NewCalculator()
	snap := c.Snapshot()

	assert.Equal(t, 0.60, snap.Input.CostPerUnit)
	assert.Equal(t, 0.0, snap.Input.Circumference)
	assert.Equal(t, 0.0, snap.Input.Height)
	assert.Equal(t, valueobject.Metric, snap.Input.UnitSystem)
	assert.Equal(t, DisplayHidden, snap.Display.State)
	assert.Empty(t, snap.Display.String())
	assert.Equal(t, uint64(0), snap.Revision)
	assert.Equal(t, c.ID(), snap.SessionID)
}

func TestCalculator_Scenarios(t *testing.T) {
	t.Run("metric", func(t *testing.T) {
		c := NewCalculator()
		snap := fill(t, c, "0.60", "80", "20")
		assert.Equal(t, DisplayShown, snap.Display.State)
		assert.Equal(t, "$3.41", snap.Display.String())
		assert.InDelta(t, 5.6858, snap.Display.Weight, 1e-4)
	})

	t.Run("imperial same geometry", func(t *testing.T) {
		c := NewCalculator()
		fill(t, c, "0.60", "80", "20")
		snap, err := c.SetUnitSystem(valueobject.Imperial)
		require.NoError(t, err)
		assert.Equal(t, "$7.52", snap.Display.String())
		assert.Equal(t, 80.0, snap.Input.Circumference)
		assert.Equal(t, 20.0, snap.Input.Height)
	})

	t.Run("zero height stays hidden", func(t *testing.T) {
		c := NewCalculator()
		snap := fill(t, c, "0.60", "50", "0")
		assert.Equal(t, DisplayHidden, snap.Display.State)
		assert.Empty(t, snap.Display.String())
	})
}

func TestCalculator_InvalidInputHides(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		raw   string
	}{
		{name: "zero cost", field: FieldCost, raw: "0"},
		{name: "zero circumference", field: FieldCircumference, raw: "0"},
		{name: "negative height", field: FieldHeight, raw: "-3"},
		{name: "negative cost", field: FieldCost, raw: "-0.5"},
		{name: "empty text", field: FieldCircumference, raw: ""},
		{name: "non-numeric text", field: FieldHeight, raw: "tall"},
		{name: "infinite", field: FieldCost, raw: "Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator()
			require.True(t, fill(t, c, "0.60", "80", "20").Display.Visible())

			snap, err := c.SetField(tt.field, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, DisplayHidden, snap.Display.State)
			assert.True(t, snap.Display.Price.IsZero())
		})
	}
}

func TestCalculator_NonNumericStoredAsNaN(t *testing.T) {
	c := NewCalculator()
	snap, err := c.SetField(FieldHeight, "abc")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(snap.Input.Height))
}

func TestCalculator_NegativeStaysHiddenOnUnitSwitch(t *testing.T) {
	c := NewCalculator()
	fill(t, c, "0.60", "80", "-20")

	snap, err := c.SetUnitSystem(valueobject.Imperial)
	require.NoError(t, err)
	assert.Equal(t, DisplayHidden, snap.Display.State)
}

func TestCalculator_RecoversAfterValidEdit(t *testing.T) {
	c := NewCalculator()
	fill(t, c, "0.60", "80", "abc")

	snap, err := c.SetField(FieldHeight, "20")
	require.NoError(t, err)
	assert.Equal(t, "$3.41", snap.Display.String())
}

func TestCalculator_NonPositiveEstimateHidden(t *testing.T) {
	c := NewCalculator()
	// The regression predicts a negative weight for a 10 x 10 cm pumpkin.
	snap := fill(t, c, "0.60", "10", "10")
	assert.Equal(t, DisplayHidden, snap.Display.State)
}

func TestCalculator_Idempotent(t *testing.T) {
	c := NewCalculator()
	first := fill(t, c, "0.60", "80", "20")

	second, err := c.SetField(FieldHeight, "20")
	require.NoError(t, err)
	again, err := c.SetUnitSystem(valueobject.Metric)
	require.NoError(t, err)

	assert.Equal(t, first.Display, second.Display)
	assert.Equal(t, first.Display, again.Display)
	assert.Equal(t, first.Revision+2, again.Revision)
}

func TestCalculator_UnknownField(t *testing.T) {
	c := NewCalculator()
	_, err := c.SetField(Field("weight"), "10")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, uint64(0), c.Snapshot().Revision)
}

func TestCalculator_UnknownUnitSystem(t *testing.T) {
	c := NewCalculator()
	_, err := c.SetUnitSystem(valueobject.UnitSystem("stone"))
	assert.ErrorIs(t, err, ErrUnknownUnitSystem)
	assert.True(t, IsValidationError(err))
}

func TestCalculator_Reset(t *testing.T) {
	c := NewCalculator()
	fill(t, c, "1.10", "80", "20")
	_, err := c.SetUnitSystem(valueobject.Imperial)
	require.NoError(t, err)

	snap := c.Reset()
	assert.Equal(t, valueobject.DefaultInputState(), snap.Input)
	assert.Equal(t, DisplayHidden, snap.Display.State)
}

func TestCalculator_Options(t *testing.T) {
	fixed := time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)
	c := NewCalculator(
		WithDefaults(valueobject.InputState{CostPerUnit: 1.5, UnitSystem: valueobject.Imperial}),
		WithEstimator(estimator.New(estimator.WithCurrencySymbol("€"))),
		WithClock(func() time.Time { return fixed }),
	)

	snap := c.Snapshot()
	assert.Equal(t, 1.5, snap.Input.CostPerUnit)
	assert.Equal(t, valueobject.Imperial, snap.Input.UnitSystem)
	assert.Equal(t, fixed, snap.UpdatedAt)

	_, err := c.SetField(FieldCircumference, "80")
	require.NoError(t, err)
	snap, err = c.SetField(FieldHeight, "20")
	require.NoError(t, err)
	assert.Equal(t, "€18.80", snap.Display.String())
}

func TestCalculator_InvalidDefaultUnitSystem(t *testing.T) {
	c := NewCalculator(WithDefaults(valueobject.InputState{CostPerUnit: 0.6}))
	assert.Equal(t, valueobject.Metric, c.Snapshot().Input.UnitSystem)
}

func TestCalculator_Observers(t *testing.T) {
	c := NewCalculator()

	var events []Event
	var snaps []Snapshot
	c.Subscribe(func(ev Event, snap Snapshot) {
		events = append(events, ev)
		snaps = append(snaps, snap)
	})

	fill(t, c, "0.60", "80", "20")
	_, err := c.SetUnitSystem(valueobject.Imperial)
	require.NoError(t, err)
	c.Reset()

	require.Len(t, events, 5)
	assert.Equal(t, EventFieldChanged, events[0].Kind)
	assert.Equal(t, FieldCost, events[0].Field)
	assert.Equal(t, "0.60", events[0].Raw)
	assert.Equal(t, 0.60, events[0].Value)

	assert.Equal(t, DisplayHidden, events[2].Previous)
	assert.Equal(t, DisplayShown, snaps[2].Display.State)

	assert.Equal(t, EventUnitSystemChanged, events[3].Kind)
	assert.Equal(t, valueobject.Imperial, events[3].UnitSystem)
	assert.Equal(t, DisplayShown, events[3].Previous)

	assert.Equal(t, EventReset, events[4].Kind)
	assert.Equal(t, DisplayHidden, snaps[4].Display.State)
}

func TestCalculator_ObserverCanReadSnapshot(t *testing.T) {
	c := NewCalculator()
	var seen uint64
	c.Subscribe(func(_ Event, _ Snapshot) {
		seen = c.Snapshot().Revision
	})

	_, err := c.SetField(FieldCost, "1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seen)
}

func TestCalculator_ConcurrentEdits(t *testing.T) {
	c := NewCalculator()
	fill(t, c, "0.60", "80", "20")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unit := valueobject.Metric
			if i%2 == 0 {
				unit = valueobject.Imperial
			}
			_, _ = c.SetUnitSystem(unit)
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, uint64(53), snap.Revision)
	want := estimator.Estimate(snap.Input)
	assert.True(t, want.Equals(snap.Display.Price))
}
