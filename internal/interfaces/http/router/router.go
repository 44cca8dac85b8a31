// Package router assembles the chi router of the local form host.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/hapkiduki/pumpkin-price/internal/application/dto"
	"github.com/hapkiduki/pumpkin-price/internal/application/port"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/handler"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/middleware"
)

// RouterConfig contains everything the router needs.
type RouterConfig struct {
	// Version is reported in the X-API-Version header and /health
	Version string

	// StartTime is used for the uptime reported by /health
	StartTime time.Time

	// AllowedOrigins for CORS
	AllowedOrigins []string

	// RequestTimeout bounds each request; zero disables the timeout
	RequestTimeout time.Duration

	// MaxRequestSize bounds request bodies; zero disables the limit
	MaxRequestSize int64

	// RateLimit configures per-client limiting
	RateLimit middleware.RateLimiterConfig

	// Metrics serves /metrics when set
	Metrics http.Handler
}

// NewRouter builds the router serving the form session.
//
// Parameters:
//   - cfg: router configuration
//   - svc: the form service
//   - log: the logger
//
// Returns:
//   - http.Handler: the router
func NewRouter(cfg RouterConfig, svc handler.FormService, log port.Logger) http.Handler {
	r := chi.NewRouter()

	// Order matters! Middleware is executed in the order added.
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-API-Version"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(cfg.RateLimit))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.APIVersion(cfg.Version))

	r.Get("/health", healthHandler(cfg))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1/form", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestSize))
		r.Use(middleware.ContentTypeJSON)
		handler.NewFormHandler(svc, log).Routes(r)
	})

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	return r
}

// healthHandler returns the health check handler.
func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, dto.HealthResponse{
			Status:  "healthy",
			Version: cfg.Version,
			Uptime:  time.Since(cfg.StartTime).Round(time.Second).String(),
			Checks: map[string]dto.HealthCheckResult{
				"calculator": {Status: "healthy"},
			},
		})
	}
}

// notFoundHandler handles 404 responses.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusNotFound, dto.CodeNotFound, "The requested resource was not found")
}

// methodNotAllowedHandler handles 405 responses.
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusMethodNotAllowed, dto.CodeMethodNotAllowed, "The requested method is not allowed for this resource")
}
