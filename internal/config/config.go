// Package config loads client configuration from defaults, an optional YAML
// file, .env files and the process environment, in increasing priority.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Gateway drivers.
const (
	DriverSupabase = "supabase"
	DriverMemory   = "memory"
)

// Config is the full client configuration.
type Config struct {
	Environment   Environment   `yaml:"environment" env:"HIPROMPT_ENVIRONMENT"`
	LogLevel      string        `yaml:"log_level" env:"HIPROMPT_LOG_LEVEL"`
	Supabase      Supabase      `yaml:"supabase"`
	HTTP          HTTP          `yaml:"http"`
	Gateway       Gateway       `yaml:"gateway"`
	Observability Observability `yaml:"observability"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-"`
}

// Supabase holds the gateway credentials.
type Supabase struct {
	URL     string `yaml:"url" env:"HIPROMPT_SUPABASE_URL"`
	AnonKey string `yaml:"anon_key" env:"HIPROMPT_SUPABASE_ANON_KEY"`
}

// HTTP configures the local shell served by `hiprompt serve`.
type HTTP struct {
	Addr            string        `yaml:"addr" env:"HIPROMPT_HTTP_ADDR"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"HIPROMPT_CORS_ORIGINS" envSeparator:","`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HIPROMPT_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HIPROMPT_HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HIPROMPT_HTTP_SHUTDOWN_TIMEOUT"`
}

// Gateway selects and tunes the remote data gateway.
type Gateway struct {
	Driver      string        `yaml:"driver" env:"HIPROMPT_GATEWAY_DRIVER"`
	Timeout     time.Duration `yaml:"timeout" env:"HIPROMPT_GATEWAY_TIMEOUT"`
	SessionFile string        `yaml:"session_file" env:"HIPROMPT_SESSION_FILE"`
	// AtomicLikesRPC names a stored procedure that toggles a like and its
	// counter in one transaction. Empty keeps the two-step protocol.
	AtomicLikesRPC string `yaml:"atomic_likes_rpc" env:"HIPROMPT_ATOMIC_LIKES_RPC"`
	// BreakerFailureRatio trips the circuit breaker.
	BreakerFailureRatio float64       `yaml:"breaker_failure_ratio" env:"HIPROMPT_BREAKER_FAILURE_RATIO"`
	BreakerTimeout      time.Duration `yaml:"breaker_timeout" env:"HIPROMPT_BREAKER_TIMEOUT"`
}

// Observability configures metrics and tracing.
type Observability struct {
	ServiceName     string `yaml:"service_name" env:"HIPROMPT_SERVICE_NAME"`
	MetricsEnabled  bool   `yaml:"metrics_enabled" env:"HIPROMPT_METRICS_ENABLED"`
	TracingEndpoint string `yaml:"tracing_endpoint" env:"HIPROMPT_TRACING_ENDPOINT"`
}

// Default returns the configuration before any source is applied.
func Default() *Config {
	return &Config{
		Environment: Development,
		LogLevel:    "info",
		HTTP: HTTP{
			Addr:            "127.0.0.1:5173",
			CORSOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Gateway: Gateway{
			Driver:              DriverSupabase,
			Timeout:             10 * time.Second,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      30 * time.Second,
		},
		Observability: Observability{
			ServiceName:    "hiprompt",
			MetricsEnabled: true,
		},
	}
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

func (c *Config) normalize() {
	c.Environment = Environment(strings.ToLower(strings.TrimSpace(string(c.Environment))))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Gateway.Driver = strings.ToLower(strings.TrimSpace(c.Gateway.Driver))
	c.Supabase.URL = strings.TrimRight(strings.TrimSpace(c.Supabase.URL), "/")
	c.Supabase.AnonKey = strings.TrimSpace(c.Supabase.AnonKey)

	origins := c.HTTP.CORSOrigins[:0]
	for _, o := range c.HTTP.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTP.CORSOrigins = origins
}

// Validate checks the non-credential settings. Missing gateway credentials
// are reported by Diagnose instead so the caller can show setup help.
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	switch c.Gateway.Driver {
	case DriverSupabase, DriverMemory:
	default:
		return fmt.Errorf("invalid gateway driver %q", c.Gateway.Driver)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("http address is required")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	if c.Gateway.BreakerFailureRatio <= 0 || c.Gateway.BreakerFailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be in (0, 1]")
	}
	return nil
}
