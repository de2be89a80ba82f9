package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the sygnal gateway.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Security SecurityConfig `yaml:"security"`

	// Apps maps an application identifier to its backend configuration.
	// The reserved field "type" selects the backend kind to instantiate;
	// every other field is backend-specific and retrieved by the backend
	// itself through its app-scoped config view.
	Apps map[string]AppConfig `yaml:"apps"`
}

// AppConfig is the per-application key-value configuration block.
type AppConfig map[string]string

// GatewayConfig contains HTTP listener and dispatch policy settings.
type GatewayConfig struct {
	Host     string               `yaml:"host"`
	Port     int                  `yaml:"port"`
	TLS      TLSConfig            `yaml:"tls"`
	Timeouts GatewayTimeoutConfig `yaml:"timeouts"`

	// SoftBackendFailures downgrades a backend dispatch error from a
	// whole-request failure to a per-device rejection. Off by default to
	// match the historical dispatch behaviour.
	SoftBackendFailures bool `yaml:"soft_backend_failures"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// GatewayTimeoutConfig contains HTTP timeout settings in seconds.
type GatewayTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig contains the metrics sink and error-reporting settings.
type MetricsConfig struct {
	InfluxDB InfluxDBConfig `yaml:"influxdb"`

	// SentryDSN enables error reporting when non-empty.
	SentryDSN string `yaml:"sentry_dsn"`
}

// InfluxDBConfig contains InfluxDB connection settings for the metrics sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig contains bearer-token authentication settings for the
// notify endpoint. Disabled by default: the Matrix push gateway API is
// unauthenticated, but deployments fronting the open internet may want
// to require a shared-secret JWT from the homeserver.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SYGNAL_SECTION_KEY
// For example: SYGNAL_DATABASE_PATH, SYGNAL_GATEWAY_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Timeouts: GatewayTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/sygnal.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			InfluxDB: InfluxDBConfig{
				BatchSize:     100,
				FlushInterval: 10,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SYGNAL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SYGNAL_GATEWAY_HOST"); v != "" {
		cfg.Gateway.Host = v
	}

	if v := os.Getenv("SYGNAL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("SYGNAL_INFLUXDB_TOKEN"); v != "" {
		cfg.Metrics.InfluxDB.Token = v
	}

	if v := os.Getenv("SYGNAL_SENTRY_DSN"); v != "" {
		cfg.Metrics.SentryDSN = v
	}

	// Auth secret should come from the environment in production rather
	// than sitting in the config file.
	if v := os.Getenv("SYGNAL_AUTH_SECRET"); v != "" {
		cfg.Security.Auth.Secret = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Gateway.Port < 1 || c.Gateway.Port > 65535 {
		errs = append(errs, "gateway.port must be between 1 and 65535")
	}

	if c.Gateway.TLS.Enabled {
		if c.Gateway.TLS.CertFile == "" || c.Gateway.TLS.KeyFile == "" {
			errs = append(errs, "gateway.tls requires cert_file and key_file when enabled")
		}
	}

	if c.Metrics.InfluxDB.Enabled {
		if c.Metrics.InfluxDB.URL == "" {
			errs = append(errs, "metrics.influxdb.url is required when influxdb is enabled")
		}
		if c.Metrics.InfluxDB.Bucket == "" {
			errs = append(errs, "metrics.influxdb.bucket is required when influxdb is enabled")
		}
	}

	// A weak shared secret defeats the point of enabling auth.
	const minAuthSecretLength = 32
	if c.Security.Auth.Enabled {
		if c.Security.Auth.Secret == "" {
			errs = append(errs, "security.auth.secret is required when auth is enabled (set SYGNAL_AUTH_SECRET)")
		} else if len(c.Security.Auth.Secret) < minAuthSecretLength {
			errs = append(errs, "security.auth.secret must be at least 32 characters")
		}
	}

	for appID, app := range c.Apps {
		if strings.TrimSpace(appID) == "" {
			errs = append(errs, "apps contains an entry with an empty app_id")
			continue
		}
		if app["type"] == "" {
			errs = append(errs, fmt.Sprintf("apps.%s is missing the reserved 'type' field", appID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the gateway read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Gateway.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the gateway write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Gateway.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the gateway idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Gateway.Timeouts.Idle) * time.Second
}
