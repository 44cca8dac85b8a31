// Package port contains the port interfaces (driven ports) for the application layer.
// Ports define what the application layer requires from infrastructure such as
// logging and metrics, so the form service can be tested without either.
//
// In Hexagonal Architecture (ports & adapters):
//   - Ports are interfaces that define what the application needs.
//   - Adapters are implementations of these interfaces
package port

import (
	"context"
	"time"
)

// Logger defines the interface for structured logging.
//
// Example usage:
//
//	logger.Info("Price shown", "session_id", id, "price", "$3.41")
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})

	// With return a logger with additional context fields.
	With(keysAndValues ...interface{}) Logger

	// WithContext return a logger with context information (e.g., request ID).
	WithContext(ctx context.Context) Logger
}

// Metrics defines the interface for recording application metrics.
// The Prometheus adapter lives in internal/infrastructure/metrics.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value float64, tags map[string]string)

	// Gauge sets a gauge metric value.
	Gauge(name string, value float64, tags map[string]string)

	// Histogram records a value in a histogram.
	Histogram(name string, value float64, tags map[string]string)

	// Timing records a timing/duration metric.
	Timing(name string, duration time.Duration, tags map[string]string)
}

// NopMetrics discards every metric.
type NopMetrics struct{}

// Counter implements Metrics.
func (NopMetrics) Counter(string, float64, map[string]string) {}

// Gauge implements Metrics.
func (NopMetrics) Gauge(string, float64, map[string]string) {}

// Histogram implements Metrics.
func (NopMetrics) Histogram(string, float64, map[string]string) {}

// Timing implements Metrics.
func (NopMetrics) Timing(string, time.Duration, map[string]string) {}
