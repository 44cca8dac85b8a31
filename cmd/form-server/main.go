// Package main is the entry point of the local form host.
// It owns a single pumpkin price form session and binds it to JSON over HTTP
// for a browser front end.
//
// 12-Factor App compliance:
//   - III. Config: Configuration via environment variables
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run ./cmd/form-server
//
// Environment Variables:
//
//	PPE_ENVIRONMENT                   - Deployment environment (development, production)
//	PPE_SERVER_PORT                   - HTTP server port (default: 8080)
//	PPE_ESTIMATOR_DEFAULT_COST        - Initial cost per unit (default: 0.60)
//	PPE_ESTIMATOR_DEFAULT_UNIT_SYSTEM - Initial unit system (default: metric)
//	PPE_ESTIMATOR_CURRENCY_SYMBOL     - Symbol prefixed to prices (default: $)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/application/service"
	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
	"github.com/hapkiduki/pumpkin-price/internal/domain/estimator"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/config"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/logging"
	"github.com/hapkiduki/pumpkin-price/internal/infrastructure/metrics"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/middleware"
	"github.com/hapkiduki/pumpkin-price/internal/interfaces/http/router"
	"github.com/hapkiduki/pumpkin-price/pkg/logger"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cfg := config.MustLoad()

	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logAdapter := logging.NewAdapter(log)
	prom := metrics.New(metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		Buckets:     []float64{1, 2, 5, 10, 20, 50, 100, 200},
	})

	calc := entity.NewCalculator(
		entity.WithDefaults(cfg.Estimator.InputDefaults()),
		entity.WithEstimator(estimator.New(estimator.WithCurrencySymbol(cfg.Estimator.CurrencySymbol))),
	)
	svc := service.NewFormService(calc, logAdapter, prom)

	log.Info("Starting pumpkin price form host",
		"version", version,
		"environment", cfg.App.Environment,
		"session_id", svc.SessionID(),
	)

	handler := router.NewRouter(router.RouterConfig{
		Version:        version,
		StartTime:      time.Now(),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit: middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		},
		Metrics: prom.Handler(),
	}, svc, logAdapter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server shutdown complete")
}
