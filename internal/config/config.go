// Package config loads the quotebot configuration: the shared transport
// settings plus the quotes API section.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/quotebot/core/config"
)

const (
	// DefaultQuotesBaseURL is the public quotable.io endpoint.
	DefaultQuotesBaseURL = "https://api.quotable.io"
	// DefaultQuotesTimeout bounds every single quotes API request.
	DefaultQuotesTimeout = 8 * time.Second
)

// QuotesConfig configures the external quotes API client.
type QuotesConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"QUOTES_BASE_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"QUOTES_TIMEOUT_SECONDS"`
	// RequestsPerSecond throttles outgoing API calls; 0 disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"QUOTES_RPS"`
	Burst             int     `yaml:"burst" envconfig:"QUOTES_BURST"`
}

// Timeout returns the per-request timeout with the default applied.
func (q QuotesConfig) Timeout() time.Duration {
	if q.TimeoutSeconds <= 0 {
		return DefaultQuotesTimeout
	}
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// HealthConfig enables the HTTP health endpoint when Listen is set.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Quotes QuotesConfig `yaml:"quotes"`
	Health HealthConfig `yaml:"health"`
}

// CoreConfig exposes the embedded transport configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file at path, overlays environment variables and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates both the core and the quotes sections.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.Quotes.BaseURL), "/")
	if base == "" {
		base = DefaultQuotesBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid quotes.base_url %q", cfg.Quotes.BaseURL)
	}
	cfg.Quotes.BaseURL = base

	if cfg.Quotes.TimeoutSeconds < 0 {
		return fmt.Errorf("quotes.timeout_seconds must be >= 0")
	}
	if cfg.Quotes.RequestsPerSecond < 0 {
		return fmt.Errorf("quotes.requests_per_second must be >= 0")
	}
	if cfg.Quotes.Burst <= 0 {
		cfg.Quotes.Burst = 1
	}

	cfg.Health.Listen = strings.TrimSpace(cfg.Health.Listen)
	if cfg.Health.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Health.Listen); err != nil {
			return fmt.Errorf("invalid health.listen %q: %w", cfg.Health.Listen, err)
		}
	}
	return nil
}
