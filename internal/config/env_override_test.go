package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("SERVERTRAIN_BASE_URL replaces the service address", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVERTRAIN_BASE_URL", "http://trainer:8000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://trainer:8000", cfg.Server.BaseURL)
	})

	t.Run("empty variables leave values alone", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultBaseURL, cfg.Server.BaseURL)
		assert.Equal(t, "content", cfg.Serve.ContentDir)
		assert.Equal(t, ThemeAuto, cfg.UI.Theme)
	})

	t.Run("timeout, content dir and log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVERTRAIN_TIMEOUT", "2s")
		t.Setenv("SERVERTRAIN_CONTENT_DIR", "/srv/content")
		t.Setenv("SERVERTRAIN_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "2s", cfg.Server.Timeout)
		assert.Equal(t, "/srv/content", cfg.Serve.ContentDir)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("SERVERTRAIN_DARK_MODE forces the dark theme", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVERTRAIN_DARK_MODE", "1")

		cfg := &Config{UI: UIConfig{Theme: ThemeLight}}
		cfg.applyEnvOverrides()

		assert.Equal(t, ThemeDark, cfg.UI.Theme)
	})
}
