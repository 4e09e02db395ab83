// Package logging provides config-driven categorized logging for servertrain.
// Each category is a named zap logger. While the interactive walk owns the
// terminal, logs are written to a file and only when debug_mode is on.
// Non-interactive commands log to stderr instead.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryClient  Category = "client"  // Scenario service HTTP calls
	CategoryEngine  Category = "engine"  // Step progression
	CategoryUI      Category = "ui"      // Walk controller transitions
	CategoryServer  Category = "server"  // Content dev server requests
	CategoryContent Category = "content" // Content loading and reloads
	CategoryAudit   Category = "audit"   // Content audit runs
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // log file used in debug mode
	DebugMode  bool            // master toggle for file logging
	Categories map[string]bool // per-category toggles, all enabled when nil
	// Stderr sends logs to stderr regardless of DebugMode. Used by
	// non-interactive commands where the terminal is not a TUI.
	Stderr bool
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	current Config
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the root logger. Calling it again replaces the previous one.
func Initialize(cfg Config) error {
	l, err := build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	root = l
	current = cfg
	loggers = make(map[Category]*zap.Logger)
	return nil
}

func build(cfg Config) (*zap.Logger, error) {
	if !cfg.DebugMode && !cfg.Stderr {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	name := strings.ToLower(cfg.Level)
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] invalid log level %q, using info\n", cfg.Level)
		level.SetLevel(zap.InfoLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding := strings.ToLower(cfg.Format)
	if encoding != "json" && encoding != "console" {
		encoding = "console"
	}

	output := "stderr"
	if !cfg.Stderr {
		output = cfg.File
		if output == "" {
			output = "servertrain.log"
		}
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
	}

	zcfg := zap.Config{
		Level:             level,
		Development:       false,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
	}
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// Replace swaps the root logger, e.g. for tests. The returned func restores
// the previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prevRoot, prevCfg := root, current
	root = l
	current = Config{Stderr: true}
	loggers = make(map[Category]*zap.Logger)
	mu.Unlock()

	return func() {
		mu.Lock()
		root, current = prevRoot, prevCfg
		loggers = make(map[Category]*zap.Logger)
		mu.Unlock()
	}
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(current, category)
}

func categoryEnabled(cfg Config, category Category) bool {
	if !cfg.DebugMode && !cfg.Stderr {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, ok := cfg.Categories[string(category)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns the logger for a category, or a no-op logger when the
// category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := zap.NewNop()
	if categoryEnabled(current, category) {
		l = root.Named(string(category))
	}
	loggers[category] = l
	return l
}

// Sync flushes the root logger. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS - printf-style logging without getting a logger first
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Sugar().Infof(format, args...)
}

// EngineDebug logs debug to the engine category
func EngineDebug(format string, args ...interface{}) {
	Get(CategoryEngine).Sugar().Debugf(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Sugar().Infof(format, args...)
}

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Sugar().Debugf(format, args...)
}

// Content logs to the content category
func Content(format string, args ...interface{}) {
	Get(CategoryContent).Sugar().Infof(format, args...)
}

// ContentWarn logs a warning to the content category
func ContentWarn(format string, args ...interface{}) {
	Get(CategoryContent).Sugar().Warnf(format, args...)
}

// Audit logs to the audit category
func Audit(format string, args ...interface{}) {
	Get(CategoryAudit).Sugar().Infof(format, args...)
}
