package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alextanhongpin/correlation/types/env"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

// Default values.
const (
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultRequestTimeout = time.Second
	DefaultMetricsAddr    = ":9090"
	DefaultLogLevel       = "info"
)

// Environment variables that override the file.
const (
	EnvPollInterval   = "CORRELATION_POLL_INTERVAL"
	EnvRequestTimeout = "CORRELATION_REQUEST_TIMEOUT"
	EnvMetricsAddr    = "CORRELATION_METRICS_ADDR"
	EnvLogLevel       = "CORRELATION_LOG_LEVEL"
)

type Config struct {
	// PollInterval is how often pending requests are checked for timeouts.
	PollInterval time.Duration `yaml:"poll_interval"`

	// RequestTimeout is the default reply timeout. Zero or negative waits
	// forever.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is one of debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	Demo DemoConfig `yaml:"demo"`
}

// DemoConfig drives the simulated request/reply traffic of cmd/correlated.
type DemoConfig struct {
	// Interval between two requests.
	Interval time.Duration `yaml:"interval"`

	// MaxReplyDelay is the upper bound of the simulated reply latency.
	MaxReplyDelay time.Duration `yaml:"max_reply_delay"`

	// DropRate is the fraction of requests that never get a reply.
	DropRate float64 `yaml:"drop_rate"`
}

// Load reads the YAML file at path, if any, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := overrides(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Level returns the parsed LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return l
}

// Validate rejects settings the timeout map cannot run with.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive, got %s", ErrInvalid, c.PollInterval)
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level %q: want debug|info|warn|error", ErrInvalid, c.LogLevel)
	}

	if c.Demo.Interval <= 0 {
		return fmt.Errorf("%w: demo.interval must be positive, got %s", ErrInvalid, c.Demo.Interval)
	}

	if c.Demo.MaxReplyDelay < 0 {
		return fmt.Errorf("%w: demo.max_reply_delay must not be negative", ErrInvalid)
	}

	if c.Demo.DropRate < 0 || c.Demo.DropRate > 1 {
		return fmt.Errorf("%w: demo.drop_rate %v is out of range [0, 1]", ErrInvalid, c.Demo.DropRate)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
		MetricsAddr:    DefaultMetricsAddr,
		LogLevel:       DefaultLogLevel,
		Demo: DemoConfig{
			Interval:      50 * time.Millisecond,
			MaxReplyDelay: 2 * time.Second,
			DropRate:      0.1,
		},
	}
}

func overrides(cfg *Config) error {
	return errors.Join(
		env.OverrideDuration(EnvPollInterval, &cfg.PollInterval),
		env.OverrideDuration(EnvRequestTimeout, &cfg.RequestTimeout),
		env.Override(EnvMetricsAddr, &cfg.MetricsAddr),
		env.Override(EnvLogLevel, &cfg.LogLevel),
	)
}
