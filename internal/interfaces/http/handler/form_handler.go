// Package handler contains the HTTP handlers that bind the form session to JSON.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/hapkiduki/pumpkin-price/internal/application/dto"
	"github.com/hapkiduki/pumpkin-price/internal/application/port"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/middleware"
)

// FormService is the application service the handler drives.
type FormService interface {
	Snapshot(ctx context.Context) entity.Snapshot
	Fields(ctx context.Context) []entity.FieldSpec
	UpdateField(ctx context.Context, name, raw string) (entity.Snapshot, error)
	SwitchUnitSystem(ctx context.Context, name string) (entity.Snapshot, error)
	Reset(ctx context.Context) entity.Snapshot
}

// FormHandler serves the form session over HTTP.
//
// Invalid numeric text is not an HTTP error: the edit is applied and the
// response reports the price as hidden. Only requests the form cannot express
// (unknown field, unknown unit system, malformed body) are rejected.
type FormHandler struct {
	svc    FormService
	logger port.Logger
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(svc FormService, logger port.Logger) *FormHandler {
	return &FormHandler{svc: svc, logger: logger}
}

// Routes mounts the form endpoints on r.
//
//	GET  /            current form state
//	GET  /fields      input metadata
//	PUT  /fields/{field}
//	PUT  /unit-system
//	POST /reset
func (h *FormHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Get("/fields", h.ListFields)
	r.Put("/fields/{field}", h.UpdateField)
	r.Put("/unit-system", h.SwitchUnitSystem)
	r.Post("/reset", h.Reset)
}

// Get returns the current form state.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Snapshot(r.Context()))
}

// ListFields returns the input metadata for the current unit system.
func (h *FormHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, dto.NewSuccessResponse(dto.FieldsResponse{Fields: h.svc.Fields(r.Context())}))
}

// UpdateField applies the text entered into one numeric field.
func (h *FormHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")

	var req dto.UpdateFieldRequest
	if err := render.Bind(r, &req); err != nil {
		h.invalid(w, r, "value", err.Error(), nil)
		return
	}

	snap, err := h.svc.UpdateField(r.Context(), name, req.Text())
	if err != nil {
		h.fail(w, r, "field", name, err)
		return
	}
	h.respond(w, r, snap)
}

// SwitchUnitSystem selects metric or imperial units.
func (h *FormHandler) SwitchUnitSystem(w http.ResponseWriter, r *http.Request) {
	var req dto.UnitSystemRequest
	if err := render.Bind(r, &req); err != nil {
		h.invalid(w, r, "unit_system", err.Error(), nil)
		return
	}

	snap, err := h.svc.SwitchUnitSystem(r.Context(), req.UnitSystem)
	if err != nil {
		h.fail(w, r, "unit_system", req.UnitSystem, err)
		return
	}
	h.respond(w, r, snap)
}

// Reset restores the session defaults.
func (h *FormHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Reset(r.Context()))
}

func (h *FormHandler) respond(w http.ResponseWriter, r *http.Request, snap entity.Snapshot) {
	resp := dto.NewSuccessResponse(dto.NewFormResponse(snap))
	resp.Meta = &dto.ResponseMeta{
		RequestID: w.Header().Get(middleware.RequestIDHeader),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	render.JSON(w, r, resp)
}

func (h *FormHandler) fail(w http.ResponseWriter, r *http.Request, field, value string, err error) {
	if entity.IsValidationError(err) {
		h.invalid(w, r, field, err.Error(), value)
		return
	}
	h.logger.WithContext(r.Context()).Error("Form edit failed", "error", err)
	middleware.WriteError(w, r, http.StatusInternalServerError, dto.CodeInternal, "An unexpected error occurred")
}

func (h *FormHandler) invalid(w http.ResponseWriter, r *http.Request, field, message string, value any) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, dto.NewValidationErrorResponse[any]([]dto.ValidationError{
		{Field: field, Message: message, Value: value},
	}))
}
