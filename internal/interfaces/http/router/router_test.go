package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/application/service"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/logging"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/metrics"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/middleware"
	"github.com/hapkiduki/pumpkin-price/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type formEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		SessionID  string `json:"session_id"`
		Revision   uint64 `json:"revision"`
		UnitSystem string `json:"unit_system"`
		Inputs     struct {
			Cost          *float64 `json:"cost"`
			Circumference *float64 `json:"circumference"`
			Height        *float64 `json:"height"`
		} `json:"inputs"`
		Labels struct {
			Cost   string `json:"cost"`
			Weight string `json:"weight"`
		} `json:"labels"`
		Price struct {
			State   string   `json:"state"`
			Display string   `json:"display"`
			Amount  string   `json:"amount"`
			Weight  *float64 `json:"weight"`
		} `json:"price"`
	} `json:"data"`
	Error *struct {
		Code             string `json:"code"`
		ValidationErrors []struct {
			Field string `json:"field"`
		} `json:"validation_errors"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	prom    *metrics.Prometheus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logging.NewAdapter(logger.FromZap(zap.NewNop()))
	prom := metrics.New(metrics.Config{Environment: "test"})
	svc := service.NewFormService(entity.NewCalculator(), log, prom)

	h := NewRouter(RouterConfig{
		Version:        "test",
		StartTime:      time.Now(),
		AllowedOrigins: []string{"*"},
		RequestTimeout: time.Second,
		MaxRequestSize: 1 << 10,
		RateLimit: middleware.RateLimiterConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		Metrics: prom.Handler(),
	}, svc, log)
	return &testServer{handler: h, prom: prom}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, formEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env formEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRouter_InitialState(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/v1/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "metric", env.Data.UnitSystem)
	require.NotNil(t, env.Data.Inputs.Cost)
	assert.Equal(t, 0.60, *env.Data.Inputs.Cost)
	assert.Equal(t, "hidden", env.Data.Price.State)
	assert.Empty(t, env.Data.Price.Display)
	assert.Equal(t, "¢/kg", env.Data.Labels.Cost)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "test", rec.Header().Get("X-API-Version"))
}

func TestRouter_MetricAndImperialScenario(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPut, "/v1/form/fields/circumference", `{"value":"80"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodPut, "/v1/form/fields/height", `{"value":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shown", env.Data.Price.State)
	assert.Equal(t, "$3.41", env.Data.Price.Display)
	assert.Equal(t, "3.41", env.Data.Price.Amount)
	require.NotNil(t, env.Data.Price.Weight)
	assert.InDelta(t, 5.686, *env.Data.Price.Weight, 1e-9)

	rec, env = s.do(t, http.MethodPut, "/v1/form/unit-system", `{"unit_system":"imperial"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "$7.52", env.Data.Price.Display)
	assert.Equal(t, "lb", env.Data.Labels.Weight)
	assert.Equal(t, uint64(3), env.Data.Revision)
}

func TestRouter_InvalidNumericTextHidesPrice(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/v1/form/fields/circumference", `{"value":"80"}`)
	s.do(t, http.MethodPut, "/v1/form/fields/height", `{"value":"20"}`)

	rec, env := s.do(t, http.MethodPut, "/v1/form/fields/height", `{"value":"tall"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hidden", env.Data.Price.State)
	assert.Nil(t, env.Data.Inputs.Height)

	rec, env = s.do(t, http.MethodPut, "/v1/form/fields/height", `{"value":"-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hidden", env.Data.Price.State)
	require.NotNil(t, env.Data.Inputs.Height)
	assert.Equal(t, -2.0, *env.Data.Inputs.Height)
}

func TestRouter_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{name: "unknown field", method: http.MethodPut, path: "/v1/form/fields/weight", body: `{"value":"1"}`, field: "field"},
		{name: "missing value", method: http.MethodPut, path: "/v1/form/fields/height", body: `{}`, field: "value"},
		{name: "malformed json", method: http.MethodPut, path: "/v1/form/fields/height", body: `{"value":`, field: "value"},
		{name: "unknown unit system", method: http.MethodPut, path: "/v1/form/unit-system", body: `{"unit_system":"stone"}`, field: "unit_system"},
		{name: "missing unit system", method: http.MethodPut, path: "/v1/form/unit-system", body: `{}`, field: "unit_system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			require.Len(t, env.Error.ValidationErrors, 1)
			assert.Equal(t, tt.field, env.Error.ValidationErrors[0].Field)
		})
	}
}

func TestRouter_UnsupportedMediaType(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/form/fields/height", strings.NewReader("value=20"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_Reset(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/v1/form/fields/circumference", `{"value":"80"}`)
	s.do(t, http.MethodPut, "/v1/form/fields/height", `{"value":"20"}`)

	rec, env := s.do(t, http.MethodPost, "/v1/form/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hidden", env.Data.Price.State)
	require.NotNil(t, env.Data.Inputs.Circumference)
	assert.Equal(t, 0.0, *env.Data.Inputs.Circumference)
}

func TestRouter_Fields(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/form/fields", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Fields []struct {
				Name string  `json:"name"`
				Unit string  `json:"unit"`
				Step float64 `json:"step"`
			} `json:"fields"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Fields, 3)
	assert.Equal(t, "cost", env.Data.Fields[0].Name)
	assert.Equal(t, 0.01, env.Data.Fields[0].Step)
	assert.Equal(t, "height", env.Data.Fields[2].Name)
}

func TestRouter_HealthMetricsAndFallbacks(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/v1/form/fields/cost", `{"value":"0.75"}`)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pumpkin_form_edits_total")

	rec, _ = s.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/v1/form", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
