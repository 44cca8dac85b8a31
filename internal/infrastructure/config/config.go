// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compliance:
//   - III. Config: Store config in the environment
//   - Configuration is loaded from environment variables (prefix PPE_)
//   - No config files checked into version control
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hapkiduki/pumpkin-price/internal/domain/valueobject"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable (Pumpkin Price Estimator).
const EnvPrefix = "PPE"

// Configuration errors.
var (
	ErrInvalidPort        = errors.New("server port must be between 1 and 65535")
	ErrInvalidDefaultCost = errors.New("estimator default cost cannot be negative")
	ErrInvalidRateLimit   = errors.New("rate limit must be positive")
)

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// Estimator contains form session defaults
	Estimator EstimatorConfig `mapstructure:"estimator"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version of the application
	Version string `mapstructure:"version"`

	// Debug mode flag
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// RequestTimeout bounds the handling of a single request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// ShutdownTimeout is the maximum duration for graceful server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxRequestSize is the maximum allowed request body size
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// CORSAllowedOrigins is a list of allowed origins for CORS
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// RateLimit configures per-client request limiting
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// Burst is the maximum burst size
	Burst int `mapstructure:"burst"`
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the output format (json, console)
	Format string `mapstructure:"format"`
}

// EstimatorConfig contains the defaults a form session starts with.
type EstimatorConfig struct {
	// DefaultCost is the initial cost per kilogram or pound
	DefaultCost float64 `mapstructure:"default_cost"`

	// DefaultUnitSystem is the initial unit system (metric, imperial)
	DefaultUnitSystem string `mapstructure:"default_unit_system"`

	// CurrencySymbol is prefixed to displayed prices
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// InputDefaults returns the input state a form session starts with.
// Call Validate first; an unknown unit system falls back to metric.
func (c EstimatorConfig) InputDefaults() valueobject.InputState {
	state := valueobject.DefaultInputState()
	state.CostPerUnit = c.DefaultCost
	if u, err := valueobject.ParseUnitSystem(c.DefaultUnitSystem); err == nil {
		state.UnitSystem = u
	}
	return state
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (if provided)
//  3. Default values
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading or validation
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads the configuration into a caller-supplied viper instance.
// Callers may bind command line flags on v before calling LoadWith.
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/pumpkin-price")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Server.RateLimit.RequestsPerSecond <= 0 || c.Server.RateLimit.Burst <= 0 {
		return ErrInvalidRateLimit
	}
	if c.Estimator.DefaultCost < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDefaultCost, c.Estimator.DefaultCost)
	}
	if _, err := valueobject.ParseUnitSystem(c.Estimator.DefaultUnitSystem); err != nil {
		return fmt.Errorf("estimator default unit system %q: %w", c.Estimator.DefaultUnitSystem, err)
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "pumpkin-price")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_request_size", 1<<20) // 1MB
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit.requests_per_second", 10.0)
	v.SetDefault("server.rate_limit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Estimator defaults
	v.SetDefault("estimator.default_cost", valueobject.DefaultCostPerUnit)
	v.SetDefault("estimator.default_unit_system", string(valueobject.Metric))
	v.SetDefault("estimator.currency_symbol", valueobject.DefaultCurrencySymbol)
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("app.environment", EnvPrefix+"_ENVIRONMENT")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT") // Common convention
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
