package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdss-monitor/internal/runner"
)

var (
	benchSite        string
	benchConcurrency int
	benchDuration    time.Duration
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure computation pass latency for one site",
	Long: `Runs passes for the selected site from several workers for a fixed time
and prints throughput with average, P95 and P99 pass latency as JSON.

Example:
  hdss-monitor bench --site ncd --concurrency 8 --duration 30s`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchSite, "site", "s", "", "Survey site (required)")
	benchCmd.Flags().IntVar(&benchConcurrency, "concurrency", 4, "Number of concurrent passes")
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 30*time.Second, "Duration of the run")
}

func runBench(cmd *cobra.Command, args []string) error {
	if err := checkSite(benchSite); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	driver, err := connect(ctx)
	if err != nil {
		return err
	}
	defer driver.Close()

	// Per-pass logs would swamp the output.
	p, err := runner.New(driver, cfg, logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel)))
	if err != nil {
		return err
	}

	logger.Info("running benchmark",
		zap.String("site", benchSite),
		zap.Int("concurrency", benchConcurrency),
		zap.Duration("duration", benchDuration))

	result, err := runner.Bench(ctx, p, benchSite, benchConcurrency, benchDuration)
	if err != nil && ctx.Err() == nil {
		return err
	}

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
	return nil
}
