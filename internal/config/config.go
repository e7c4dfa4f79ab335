// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cloudcart/internal/errors"
	"cloudcart/internal/logging"
)

// Environment variables that override file settings
const (
	EnvPort           = "PORT"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvModel          = "MODEL"
	EnvRateTable      = "CLOUDCART_RATE_TABLE"
	EnvLogLevel       = "CLOUDCART_LOG_LEVEL"
	EnvAllowedOrigins = "CLOUDCART_ALLOWED_ORIGINS"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Advisor contains language model configuration
	Advisor AdvisorConfig `json:"advisor"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// AllowedOrigins for CORS; empty or "*" allows all
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	ReadTimeoutSeconds  int `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// RateTablePath overrides the embedded rate table when set
	RateTablePath string `json:"rate_table_path,omitempty"`

	// DefaultRegion is used by the CLI when a cart names none
	DefaultRegion string `json:"default_region"`
}

// AdvisorConfig contains language model settings
type AdvisorConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// APIKey is normally supplied through GEMINI_API_KEY
	APIKey string `json:"api_key,omitempty"`

	BaseURL         string `json:"base_url"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
}

// Enabled reports whether an API key is configured
func (a AdvisorConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// Timeout returns the per-request timeout
func (a AdvisorConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long advisor responses are reused
func (a AdvisorConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":3001",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 90,
		},
		Pricing: PricingConfig{
			DefaultRegion: "us-east-1",
		},
		Advisor: AdvisorConfig{
			Provider:        "gemini",
			Model:           "gemini-2.5-flash",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSeconds:  60,
			CacheTTLSeconds: 600,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cloudcart", "config.json")
}

// Load loads configuration from a file. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(errors.TypeConfig, err, "read config %s", path)
		default:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, errors.Wrapf(errors.TypeConfig, err, "parse config %s", path)
			}
		}
	}

	config.ApplyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv loads the first .env file found in paths into the process
// environment. Variables already set are not overwritten.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPort); ok && v != "" {
		if strings.Contains(v, ":") {
			c.Server.Addr = v
		} else {
			c.Server.Addr = ":" + v
		}
	}
	if v, ok := lookup(EnvGeminiAPIKey); ok {
		c.Advisor.APIKey = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Advisor.Model = v
	}
	if v, ok := lookup(EnvRateTable); ok {
		c.Pricing.RateTablePath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvAllowedOrigins); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
}

// Validate checks settings that would otherwise fail at startup
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.Config("server.addr is required")
	}
	if port := c.Server.Addr[strings.LastIndex(c.Server.Addr, ":")+1:]; port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return errors.Config("server.addr has an invalid port: " + c.Server.Addr)
		}
	}
	if c.Advisor.TimeoutSeconds <= 0 {
		return errors.Config("advisor.timeout_seconds must be positive")
	}
	if c.Advisor.CacheTTLSeconds < 0 {
		return errors.Config("advisor.cache_ttl_seconds must not be negative")
	}
	return nil
}

// Save saves configuration to a file. The API key is never written.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := *c
	out.Advisor.APIKey = ""

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
