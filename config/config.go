// ABOUTME: Runtime configuration loaded from the environment and .env files
// ABOUTME: Defaults cover a local SQLite install under the XDG data directory
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppName names the XDG data directory.
const AppName = "prospect"

// Config holds every tunable the binary reads at startup.
type Config struct {
	DatabaseURL          string        `env:"PROSPECT_DATABASE_URL"`
	HTTPAddr             string        `env:"PROSPECT_HTTP_ADDR" envDefault:":8080"`
	LeadCadenceDays      int           `env:"PROSPECT_LEAD_CADENCE_DAYS" envDefault:"7"`
	ContactCadenceDays   int           `env:"PROSPECT_CONTACT_CADENCE_DAYS" envDefault:"30"`
	AnalyticsDefaultDays int           `env:"PROSPECT_ANALYTICS_DEFAULT_DAYS" envDefault:"7"`
	AnalyticsMaxDays     int           `env:"PROSPECT_ANALYTICS_MAX_DAYS" envDefault:"365"`
	Timezone             string        `env:"PROSPECT_TIMEZONE" envDefault:"Local"`
	LogLevel             string        `env:"PROSPECT_LOG_LEVEL" envDefault:"info"`
	InboxDir             string        `env:"PROSPECT_INBOX_DIR"`
	ShutdownTimeout      time.Duration `env:"PROSPECT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file in the working directory, then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses configuration from an explicit variable map. Used by tests.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = DefaultDatabasePath()
	}
	if c.InboxDir == "" {
		c.InboxDir = filepath.Join(xdg.DataHome, AppName, "inbox")
	}
}

// DefaultDatabasePath is the SQLite file used when nothing else is configured.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// Validate checks value ranges and the time zone.
func (c Config) Validate() error {
	if c.LeadCadenceDays <= 0 {
		return fmt.Errorf("PROSPECT_LEAD_CADENCE_DAYS must be positive, got %d", c.LeadCadenceDays)
	}
	if c.ContactCadenceDays <= 0 {
		return fmt.Errorf("PROSPECT_CONTACT_CADENCE_DAYS must be positive, got %d", c.ContactCadenceDays)
	}
	if c.AnalyticsMaxDays <= 0 {
		return fmt.Errorf("PROSPECT_ANALYTICS_MAX_DAYS must be positive, got %d", c.AnalyticsMaxDays)
	}
	if c.AnalyticsDefaultDays <= 0 || c.AnalyticsDefaultDays > c.AnalyticsMaxDays {
		return fmt.Errorf("PROSPECT_ANALYTICS_DEFAULT_DAYS must be between 1 and %d, got %d",
			c.AnalyticsMaxDays, c.AnalyticsDefaultDays)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("PROSPECT_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("PROSPECT_TIMEZONE: %w", err)
	}
	return loc, nil
}
