// Package config handles configuration loading for stockdash.
// It supports YAML config files, .env files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment names accepted by server.env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Session  SessionConfig  `mapstructure:"session"  yaml:"session"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"             yaml:"host"`
	Port            int           `mapstructure:"port"             yaml:"port"`
	Env             string        `mapstructure:"env"              yaml:"env"` // "development" or "production"
	CORSOrigins     []string      `mapstructure:"cors_origins"     yaml:"cors_origins"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ProviderConfig selects and tunes the upstream market-data provider.
type ProviderConfig struct {
	Name              string        `mapstructure:"name"                yaml:"name"`     // "alphavantage" or "fmp"
	BaseURL           string        `mapstructure:"base_url"            yaml:"base_url"` // empty = provider default
	APIKey            string        `mapstructure:"api_key"             yaml:"-"        json:"-"`
	Timeout           time.Duration `mapstructure:"timeout"             yaml:"timeout"`
	HistoryWindow     int           `mapstructure:"history_window"      yaml:"history_window"`
	SearchLimit       int           `mapstructure:"search_limit"        yaml:"search_limit"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"` // 0 = no local guard
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	CookieName      string        `mapstructure:"cookie_name"      yaml:"cookie_name"`
	TTL             time.Duration `mapstructure:"ttl"              yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// IsDevelopment reports whether verbose development behavior is enabled.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == EnvDevelopment
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("server.env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Server.Env)
	}
	if c.Provider.Name == "" {
		return errors.New("provider.name is required")
	}
	if c.Provider.HistoryWindow < 1 || c.Provider.HistoryWindow > 100 {
		return fmt.Errorf("provider.history_window must be within 1..100, got %d", c.Provider.HistoryWindow)
	}
	if c.Provider.SearchLimit < 1 || c.Provider.SearchLimit > 50 {
		return fmt.Errorf("provider.search_limit must be within 1..50, got %d", c.Provider.SearchLimit)
	}
	if c.Provider.RequestsPerMinute < 0 {
		return fmt.Errorf("provider.requests_per_minute must not be negative")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}

// Load reads the configuration from .env, config file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockdash/config.yaml (home directory)
//  3. /etc/stockdash/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKDASH_<SECTION>_<KEY>, e.g., STOCKDASH_PROVIDER_NAME.
// PORT and APP_ENV (or FLASK_ENV) are honored without the prefix.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockdash"))
	v.AddConfigPath("/etc/stockdash")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOCKDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed deployment conventions. Earlier names win.
	_ = v.BindEnv("server.port", "STOCKDASH_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.env", "STOCKDASH_SERVER_ENV", "APP_ENV", "FLASK_ENV")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Server.Env = strings.ToLower(strings.TrimSpace(cfg.Server.Env))
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.env", EnvProduction)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 45*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Provider defaults (Alpha Vantage free tier: 5 req/min, 25 req/day)
	v.SetDefault("provider.name", "alphavantage")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", 10*time.Second)
	v.SetDefault("provider.history_window", 15)
	v.SetDefault("provider.search_limit", 10)
	v.SetDefault("provider.requests_per_minute", 0)

	// Session defaults
	v.SetDefault("session.cookie_name", "stockdash_session")
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// ApplyProvider switches cfg to the named provider, as a command-line
// override does after Load. A key loaded for the previous provider is dropped
// and the new provider's key variable is consulted instead.
func ApplyProvider(cfg *Config, name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == cfg.Provider.Name {
		return
	}
	cfg.Provider.Name = name
	cfg.Provider.APIKey = ""
	overrideFromEnv(cfg)
}

// overrideFromEnv reads the provider's conventional key variable when no
// key was configured explicitly.
func overrideFromEnv(cfg *Config) {
	if cfg.Provider.APIKey != "" {
		return
	}
	if env := ProviderKeyEnv(cfg.Provider.Name); env != "" {
		if key := os.Getenv(env); key != "" {
			cfg.Provider.APIKey = key
		}
	}
}

// loadDotEnv loads ./.env into the process environment when present.
// Variables already set are not overwritten.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
