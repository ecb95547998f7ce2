package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Session store kinds
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// ServerConfig is the console's own HTTP listener
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for the listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig points at the auction REST backend
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects where credentials are persisted between requests
type SessionConfig struct {
	Store      string        `yaml:"store"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	RedisAddr  string        `yaml:"redis_addr"`
	SQLitePath string        `yaml:"sqlite_path"`
}

// ListingConfig holds the two listing cadences
type ListingConfig struct {
	Tick    time.Duration `yaml:"tick"`
	Refresh time.Duration `yaml:"refresh"`
}

// LogConfig controls level and optional rotating file output
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	// Timezone is used for rendering instants and for interpreting form
	// datetimes when the browser does not report its own zone.
	Timezone string `yaml:"timezone"`
}

// Config is the full console configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Listing ListingConfig `yaml:"listing"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
}

// DefaultConfig returns settings that work against a local backend
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Store:      StoreMemory,
			CookieName: "auction_session",
			TTL:        24 * time.Hour,
			RedisAddr:  "127.0.0.1:6379",
			SQLitePath: "auction-console.db",
		},
		Listing: ListingConfig{
			Tick:    time.Second,
			Refresh: 60 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Display: DisplayConfig{
			Timezone: "UTC",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("config: PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("AUCTION_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("AUCTION_SESSION_STORE"); v != "" {
		c.Session.Store = v
	}
	if v := os.Getenv("AUCTION_REDIS_ADDR"); v != "" {
		c.Session.RedisAddr = v
	}
	if v := os.Getenv("AUCTION_SQLITE_PATH"); v != "" {
		c.Session.SQLitePath = v
	}
	if v := os.Getenv("AUCTION_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AUCTION_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("AUCTION_TIMEZONE"); v != "" {
		c.Display.Timezone = v
	}
	return nil
}

// Validate rejects settings the console cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url %q is not an absolute http(s) URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Session.RedisAddr == "" {
			errs = append(errs, errors.New("session.redis_addr is required for the redis store"))
		}
	case StoreSQLite:
		if c.Session.SQLitePath == "" {
			errs = append(errs, errors.New("session.sqlite_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store %q is not one of memory, redis, sqlite", c.Session.Store))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, fmt.Errorf("session.ttl %s must not be negative", c.Session.TTL))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}
	if c.Listing.Tick <= 0 || c.Listing.Refresh <= 0 {
		errs = append(errs, errors.New("listing.tick and listing.refresh must be positive"))
	}
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("display.timezone: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Location returns the display zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
