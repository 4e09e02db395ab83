package config

// ServerConfig points the client at a scenario service.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// ServeConfig configures the content dev server.
type ServeConfig struct {
	Addr         string   `yaml:"addr"`
	ContentDir   string   `yaml:"content_dir"`
	AllowOrigins []string `yaml:"allow_origins"`
	// Watch reloads content when files in ContentDir change
	Watch bool `yaml:"watch"`
}

// AuditConfig configures `servertrain check`.
type AuditConfig struct {
	// Concurrency bounds parallel scenario fetches
	Concurrency int `yaml:"concurrency"`
}
