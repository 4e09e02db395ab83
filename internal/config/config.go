package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all servertrain configuration.
type Config struct {
	// Scenario service the walk talks to
	Server ServerConfig `yaml:"server"`

	// Terminal presentation
	UI UIConfig `yaml:"ui"`

	// Content dev server
	Serve ServeConfig `yaml:"serve"`

	// Content audit
	Audit AuditConfig `yaml:"audit"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultBaseURL is where the original training backend listens.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "10s",
		},

		UI: *DefaultUIConfig(),

		Serve: ServeConfig{
			Addr:         "127.0.0.1:8000",
			ContentDir:   "content",
			AllowOrigins: []string{"*"},
			Watch:        true,
		},

		Audit: AuditConfig{
			Concurrency: 4,
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "console",
			File:      "servertrain.log",
			DebugMode: false,
		},
	}
}

// DefaultConfigPath returns $HOME/.servertrain/config.yaml, or a relative
// path when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".servertrain", "config.yaml")
	}
	return filepath.Join(home, ".servertrain", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVERTRAIN_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("SERVERTRAIN_TIMEOUT"); v != "" {
		c.Server.Timeout = v
	}
	if v := os.Getenv("SERVERTRAIN_CONTENT_DIR"); v != "" {
		c.Serve.ContentDir = v
	}
	if v := os.Getenv("SERVERTRAIN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if os.Getenv("SERVERTRAIN_DARK_MODE") == "1" {
		c.UI.Theme = ThemeDark
	}
}

// GetTimeout returns the scenario service timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{ThemeAuto, ThemeLight, ThemeDark}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server.base_url %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server.base_url %q: scheme must be http or https", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server.base_url %q: missing host", c.Server.BaseURL)
	}

	if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
		return fmt.Errorf("invalid server.timeout %q: %w", c.Server.Timeout, err)
	}

	validTheme := false
	for _, th := range ValidThemes {
		if c.UI.Theme == th {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	if c.Audit.Concurrency < 1 {
		return fmt.Errorf("audit.concurrency must be at least 1, got %d", c.Audit.Concurrency)
	}

	return nil
}
