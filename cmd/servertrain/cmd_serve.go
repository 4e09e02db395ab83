package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"servertrain/internal/content"
	"servertrain/internal/logging"
	"servertrain/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr       string
	serveContentDir string
	serveNoWatch    bool
)

// serveCmd runs the development content server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve training content from a directory (development backend)",
	Long: `Serves the module catalog and scenarios from a content directory using
the same endpoints as the training backend:

  GET /
  GET /modules
  GET /modules/{module_id}/raw
  GET /modules/{module_id}/scenario/{scenario_id}

The directory holds catalog.yaml and modules/<module_id>.json. Changes are
picked up automatically unless --no-watch is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides serve.addr)")
	serveCmd.Flags().StringVar(&serveContentDir, "content-dir", "", "Content directory (overrides serve.content_dir)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload content on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	serveCfg := cfg.Serve
	if serveAddr != "" {
		serveCfg.Addr = serveAddr
	}
	if serveContentDir != "" {
		serveCfg.ContentDir = serveContentDir
	}
	if serveNoWatch {
		serveCfg.Watch = false
	}

	store, err := content.Open(serveCfg.ContentDir)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if serveCfg.Watch {
		w, err := content.NewWatcher(store)
		if err != nil {
			return fmt.Errorf("failed to create content watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", serveCfg.ContentDir, err)
		}
		defer w.Stop()
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(store, serveCfg, logging.Get(logging.CategoryServer))
	logger.Info("Serving training content",
		zap.String("addr", serveCfg.Addr),
		zap.String("content_dir", serveCfg.ContentDir),
		zap.Bool("watch", serveCfg.Watch),
	)
	return srv.Run(ctx)
}
