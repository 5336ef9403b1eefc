package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Jira        JiraConfig     `toml:"jira"`
	Reminder    ReminderConfig `toml:"reminder"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// JiraConfig contains transport settings for the Jira REST client.
// Credentials are never stored here - they are supplied per session
// through the connect endpoint and live only in process memory.
type JiraConfig struct {
	InsecureTLS    bool   `toml:"insecure_tls"`    // Skip TLS certificate verification (opt-in, for corporate proxies with broken chains)
	RequestTimeout string `toml:"request_timeout"` // e.g. "30s" - HTTP request timeout
	RateLimit      int    `toml:"rate_limit"`      // Max requests per second against the Jira API
}

// ReminderConfig controls the daily worklog reminder.
type ReminderConfig struct {
	Enabled bool `toml:"enabled"`
	Hour    int  `toml:"hour"`   // Local hour (0-23) the reminder fires
	Minute  int  `toml:"minute"` // Local minute (0-59) the reminder fires
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// NewDefaultConfig returns the configuration defaults applied before any
// file, environment, or flag overrides.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8377,
			Host: "localhost",
		},
		Jira: JiraConfig{
			InsecureTLS:    false, // Verify certificates unless explicitly disabled
			RequestTimeout: "30s",
			RateLimit:      10,
		},
		Reminder: ReminderConfig{
			Enabled: true,
			Hour:    17,
			Minute:  0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration with layered precedence:
// defaults -> config files (in order, later overrides earlier) -> environment.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TEMPO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("TEMPO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TEMPO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Jira transport configuration
	if insecure := os.Getenv("TEMPO_JIRA_INSECURE_TLS"); insecure != "" {
		if b, err := strconv.ParseBool(insecure); err == nil {
			config.Jira.InsecureTLS = b
		}
	}
	if timeout := os.Getenv("TEMPO_JIRA_REQUEST_TIMEOUT"); timeout != "" {
		config.Jira.RequestTimeout = timeout
	}
	if limit := os.Getenv("TEMPO_JIRA_RATE_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Jira.RateLimit = l
		}
	}

	// Reminder configuration
	if enabled := os.Getenv("TEMPO_REMINDER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Reminder.Enabled = b
		}
	}
	if hour := os.Getenv("TEMPO_REMINDER_HOUR"); hour != "" {
		if h, err := strconv.Atoi(hour); err == nil {
			config.Reminder.Hour = h
		}
	}
	if minute := os.Getenv("TEMPO_REMINDER_MINUTE"); minute != "" {
		if m, err := strconv.Atoi(minute); err == nil {
			config.Reminder.Minute = m
		}
	}

	// Logging configuration
	if level := os.Getenv("TEMPO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TEMPO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for values that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return fmt.Errorf("invalid reminder hour: %d (must be 0-23)", c.Reminder.Hour)
	}
	if c.Reminder.Minute < 0 || c.Reminder.Minute > 59 {
		return fmt.Errorf("invalid reminder minute: %d (must be 0-59)", c.Reminder.Minute)
	}
	if c.Jira.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.Jira.RequestTimeout); err != nil {
			return fmt.Errorf("invalid jira request_timeout %q: %w", c.Jira.RequestTimeout, err)
		}
	}
	if c.Jira.RateLimit <= 0 {
		return fmt.Errorf("invalid jira rate_limit: %d", c.Jira.RateLimit)
	}
	return nil
}

// RequestTimeoutDuration returns the parsed Jira request timeout, falling
// back to 30 seconds when unset.
func (c *Config) RequestTimeoutDuration() time.Duration {
	if c.Jira.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Jira.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}
