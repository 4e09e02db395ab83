package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"servertrain/internal/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkConcurrency int

// checkCmd audits every module's default scenario
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch every module's default scenario and report problems",
	Long: `Walks the catalog and fetches each module's default scenario, reporting
failed fetches, unknown step types and empty scenarios. Exits non-zero
when anything is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", 0, "Parallel fetches (overrides audit.concurrency)")
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	concurrency := cfg.Audit.Concurrency
	if checkConcurrency > 0 {
		concurrency = checkConcurrency
	}

	report, err := audit.Run(ctx, newClient(), concurrency)
	if err != nil {
		return err
	}
	logger.Debug("Audit complete", zap.Duration("elapsed", report.Duration), zap.Int("modules", len(report.Modules)))

	if err := report.WriteText(cmd.OutOrStdout()); err != nil {
		return err
	}
	if report.HasFindings() {
		failed := 0
		for _, m := range report.Modules {
			if !m.OK() {
				failed++
			}
		}
		return fmt.Errorf("check failed: %d of %d modules have problems", failed, len(report.Modules))
	}
	return nil
}
