package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"servertrain/cmd/servertrain/ui"
	"servertrain/cmd/servertrain/walk"
	"servertrain/internal/client"
	"servertrain/internal/config"
	"servertrain/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "servertrain",
	Short: "Server Training - step-by-step training scenarios in the terminal",
	Long: `servertrain walks new front-of-house staff through short training
scenarios served by the training backend.

Run without arguments to pick a module and start the interactive walk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		interactive := cmd == cmd.Root()
		return setup(interactive)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWalk()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.servertrain/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Training backend URL (overrides server.base_url)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (overrides server.timeout)")

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves configuration and starts logging. The interactive walk owns
// the terminal, so it only logs to a file in debug mode; every other command
// logs to stderr.
func setup(interactive bool) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if baseURL != "" {
		loaded.Server.BaseURL = baseURL
	}
	if timeout > 0 {
		loaded.Server.Timeout = timeout.String()
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	if err := logging.Initialize(cfg.Logging.ToLogging(!interactive)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.Get(logging.CategoryBoot)
	logger.Debug("Configuration resolved",
		zap.String("config", path),
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Duration("timeout", cfg.GetTimeout()),
	)
	return nil
}

func newClient() *client.Client {
	return client.New(cfg.Server.BaseURL,
		client.WithTimeout(cfg.GetTimeout()),
		client.WithLogger(logging.Get(logging.CategoryClient)),
	)
}

// requestContext bounds one backend call by the configured timeout.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.GetTimeout())
}

func newStyles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}

func runWalk() error {
	logging.Boot("starting walk against %s", cfg.Server.BaseURL)
	m := walk.NewModel(newClient(), cfg.UI, newStyles())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}
	return nil
}
