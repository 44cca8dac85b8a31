package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
)

// Request binding errors.
var (
	ErrMissingValue      = errors.New("value is required")
	ErrMissingUnitSystem = errors.New("unit_system is required")
)

// UpdateFieldRequest carries the text entered into a numeric field.
// Value may be a JSON string ("80") or a JSON number (80).
type UpdateFieldRequest struct {
	Value json.RawMessage `json:"value"`
}

// Bind implements render.Binder.
func (r *UpdateFieldRequest) Bind(_ *http.Request) error {
	if len(bytes.TrimSpace(r.Value)) == 0 || string(bytes.TrimSpace(r.Value)) == "null" {
		return ErrMissingValue
	}
	return nil
}

// Text returns the value as the raw text a form input would hold.
// Strings are unquoted; any other JSON value is used verbatim.
func (r *UpdateFieldRequest) Text() string {
	raw := bytes.TrimSpace(r.Value)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// UnitSystemRequest selects the unit system.
type UnitSystemRequest struct {
	UnitSystem string `json:"unit_system"`
}

// Bind implements render.Binder.
func (r *UnitSystemRequest) Bind(_ *http.Request) error {
	if strings.TrimSpace(r.UnitSystem) == "" {
		return ErrMissingUnitSystem
	}
	return nil
}

// FormInputs holds the numeric inputs. A nil value means the field holds
// text that is not a number.
type FormInputs struct {
	Cost          *float64 `json:"cost"`
	Circumference *float64 `json:"circumference"`
	Height        *float64 `json:"height"`
}

// FormLabels holds the unit labels for the current unit system.
type FormLabels struct {
	Cost          string `json:"cost"`
	Circumference string `json:"circumference"`
	Height        string `json:"height"`
	Weight        string `json:"weight"`
}

// PriceResponse is the derived price. Display, Amount and Weight are only set
// when State is "shown".
type PriceResponse struct {
	State   string   `json:"state"`
	Display string   `json:"display,omitempty"`
	Amount  string   `json:"amount,omitempty"`
	Symbol  string   `json:"symbol,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
}

// FormResponse is the full state of the form session.
type FormResponse struct {
	SessionID  string        `json:"session_id"`
	Revision   uint64        `json:"revision"`
	UnitSystem string        `json:"unit_system"`
	Inputs     FormInputs    `json:"inputs"`
	Labels     FormLabels    `json:"labels"`
	Price      PriceResponse `json:"price"`
	UpdatedAt  string        `json:"updated_at"`
}

// NewFormResponse converts a calculator snapshot into its API representation.
//
// Parameters:
//   - snap: the calculator snapshot
//
// Returns:
//   - FormResponse: the response payload
func NewFormResponse(snap entity.Snapshot) FormResponse {
	unit := snap.Input.UnitSystem
	resp := FormResponse{
		SessionID:  snap.SessionID.String(),
		Revision:   snap.Revision,
		UnitSystem: unit.String(),
		Inputs: FormInputs{
			Cost:          finite(snap.Input.CostPerUnit),
			Circumference: finite(snap.Input.Circumference),
			Height:        finite(snap.Input.Height),
		},
		Labels: FormLabels{
			Cost:          unit.CostLabel(),
			Circumference: "cm",
			Height:        "cm",
			Weight:        unit.WeightUnit(),
		},
		Price:     PriceResponse{State: string(snap.Display.State)},
		UpdatedAt: snap.UpdatedAt.Format(time.RFC3339),
	}

	if snap.Display.Visible() {
		resp.Price.Display = snap.Display.String()
		resp.Price.Amount = snap.Display.Price.FixedAmount()
		resp.Price.Symbol = snap.Display.Price.Symbol
		resp.Price.Weight = finite(math.Round(snap.Display.Weight*1000) / 1000)
	}
	return resp
}

// FieldsResponse lists the numeric inputs of the form.
type FieldsResponse struct {
	Fields []entity.FieldSpec `json:"fields"`
}

// finite returns a pointer to v, or nil when v cannot be encoded as JSON.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
