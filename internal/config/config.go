package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings for the server and CLI.
type Config struct {
	DBPath             string   `yaml:"db_path"`
	HTTPAddr           string   `yaml:"http_addr"`
	JWTSecret          string   `yaml:"jwt_secret"`
	Timezone           string   `yaml:"timezone"`
	DefaultBedtime     string   `yaml:"default_bedtime"`
	PackingPolicy      string   `yaml:"packing_policy"`
	CORSOrigins        []string `yaml:"cors_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	LogLevel           string   `yaml:"log_level"`
	LogFile            string   `yaml:"log_file"`
	ShutdownTimeoutMs  int      `yaml:"shutdown_timeout_ms"`
}

// DefaultConfig returns a Config with sensible defaults.
// JWTSecret is empty; serve refuses to start without one.
func DefaultConfig() Config {
	return Config{
		DBPath:             "rebound.db",
		HTTPAddr:           ":8080",
		Timezone:           "UTC",
		DefaultBedtime:     domain.DefaultBedtime.String(),
		PackingPolicy:      string(domain.PolicySkipOversized),
		CORSOrigins:        []string{"*"},
		RateLimitPerMinute: 60,
		LogLevel:           "info",
		ShutdownTimeoutMs:  10000,
	}
}

// Load starts from the defaults, overlays the YAML file named by
// REBOUND_CONFIG when set, then applies REBOUND_* environment variables.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("REBOUND_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REBOUND_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("REBOUND_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("REBOUND_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("REBOUND_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("REBOUND_DEFAULT_BEDTIME"); v != "" {
		c.DefaultBedtime = v
	}
	if v := os.Getenv("REBOUND_PACKING_POLICY"); v != "" {
		c.PackingPolicy = v
	}
	if v := os.Getenv("REBOUND_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("REBOUND_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("REBOUND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REBOUND_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("REBOUND_SHUTDOWN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ShutdownTimeoutMs = n
		}
	}
}

// Validate checks the values that later parse steps depend on.
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Bedtime(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute must not be negative")
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Bedtime() (domain.Clock, error) {
	b, err := domain.ParseClock(c.DefaultBedtime)
	if err != nil {
		return 0, fmt.Errorf("default_bedtime: %w", err)
	}
	return b, nil
}

func (c Config) Policy() (domain.PackingPolicy, error) {
	p, ok := domain.ParsePackingPolicy(c.PackingPolicy)
	if !ok {
		return "", fmt.Errorf("packing_policy %q: want %s or %s",
			c.PackingPolicy, domain.PolicySkipOversized, domain.PolicyStopAtFirstOverflow)
	}
	return p, nil
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMs) * time.Millisecond
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
