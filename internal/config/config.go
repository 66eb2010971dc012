// Package config loads server configuration from an optional YAML file,
// a .env file, and SHARIFY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/rlee603166/sharify/internal/calculator"
)

// ErrMissingJWTSecret is returned when auth.jwt_secret is empty.
var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")

// Config holds all configuration for the server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Split    SplitConfig    `mapstructure:"split"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
// Sessions unused for SessionTTL are closed; zero keeps them until closed.
type ServerConfig struct {
	Port                 int           `mapstructure:"port"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	SessionSweepInterval time.Duration `mapstructure:"session_sweep_interval"`
}

// DatabaseConfig selects and configures the store.
// Driver is "sqlite" (uses Path) or "postgres" (uses URL).
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	URL      string `mapstructure:"url"`
	MaxConns int    `mapstructure:"max_conns"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
}

// OCRConfig holds receipt OCR service configuration. Ingestion is disabled
// when APIURL is empty.
type OCRConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	APIKey          string        `mapstructure:"api_key"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxPollAttempts int           `mapstructure:"max_poll_attempts"`
}

// SplitConfig holds tax and tip rates as decimal strings.
type SplitConfig struct {
	TaxRate string `mapstructure:"tax_rate"`
	TipRate string `mapstructure:"tip_rate"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// IngestionEnabled reports whether an OCR service is configured.
func (c *Config) IngestionEnabled() bool {
	return c.OCR.APIURL != ""
}

// Rates parses the configured tax and tip rates.
func (c *Config) Rates() (calculator.Rates, error) {
	tax, err := decimal.NewFromString(c.Split.TaxRate)
	if err != nil {
		return calculator.Rates{}, fmt.Errorf("invalid split.tax_rate %q: %w", c.Split.TaxRate, err)
	}
	tip, err := decimal.NewFromString(c.Split.TipRate)
	if err != nil {
		return calculator.Rates{}, fmt.Errorf("invalid split.tip_rate %q: %w", c.Split.TipRate, err)
	}
	rates := calculator.Rates{Tax: tax, Tip: tip}
	if err := rates.Validate(); err != nil {
		return calculator.Rates{}, err
	}
	return rates, nil
}

func setDefaults(v *viper.Viper) {
	defaults := calculator.DefaultRates()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_ttl", "2h")
	v.SetDefault("server.session_sweep_interval", "1m")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/sharify.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_duration", "24h")

	v.SetDefault("ocr.api_url", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.request_timeout", "30s")
	v.SetDefault("ocr.poll_interval", "2s")
	v.SetDefault("ocr.max_poll_attempts", 10)

	v.SetDefault("split.tax_rate", defaults.Tax.String())
	v.SetDefault("split.tip_rate", defaults.Tip.String())

	v.SetDefault("log.level", "info")
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first if present. configPath names an optional YAML
// file; an empty path skips it. Environment variables override both, e.g.
// SHARIFY_AUTH_JWT_SECRET for auth.jwt_secret.
func Load(configPath string) (*Config, error) {
	// Non-fatal if missing
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHARIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// LOG_LEVEL is shared with logging.Setup.
	if err := v.BindEnv("log.level", "SHARIFY_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Server.SessionTTL < 0 {
		return errors.New("server.session_ttl must not be negative")
	}
	if c.Server.SessionTTL > 0 && c.Server.SessionSweepInterval <= 0 {
		return errors.New("server.session_sweep_interval must be positive")
	}
	if c.OCR.PollInterval <= 0 {
		return errors.New("ocr.poll_interval must be positive")
	}
	if c.OCR.MaxPollAttempts <= 0 {
		return errors.New("ocr.max_poll_attempts must be positive")
	}
	if _, err := c.Rates(); err != nil {
		return err
	}
	return nil
}
