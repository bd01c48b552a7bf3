package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/database"
	applog "hdss-monitor/internal/logger"
	"hdss-monitor/internal/seed"
)

var (
	configPath       string
	verbose          bool
	memoryHouseholds int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hdss-monitor",
	Short: "Data quality and progress reports for the HDSS household survey",
	Long: `hdss-monitor loads the household and individual records of the survey,
classifies them and computes the quality and tally reports for one site.

Every command reads the same config file: the record store, the site list,
the sector and outcome code maps and the GPS accuracy threshold.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = applog.New(cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the configured survey sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range cfg.Survey.Sites {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&memoryHouseholds, "memory-households", 2000, "Synthetic households loaded when source.driver is memory")

	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect opens the configured record store. The memory store is filled with
// a synthetic snapshot so every command works without a database.
func connect(ctx context.Context) (database.DatabaseDriver, error) {
	driver, err := database.NewDriver(cfg.Source)
	if err != nil {
		return nil, err
	}
	if err := driver.Connect(cfg.Source.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Source.Driver, err)
	}

	if _, ok := driver.(*database.MemoryDriver); ok {
		snap, err := seed.Generate(cfg.Survey, seed.Options{Households: memoryHouseholds, Seed: 1})
		if err != nil {
			driver.Close()
			return nil, err
		}
		if err := driver.Seed(ctx, snap); err != nil {
			driver.Close()
			return nil, err
		}
	}

	logger.Debug("connected to record store", zap.String("driver", cfg.Source.Driver))
	return driver, nil
}

// checkSite rejects sites outside the configured list before any pass runs.
func checkSite(site string) error {
	if site == "" {
		return fmt.Errorf("--site is required (one of %s)", strings.Join(cfg.Survey.Sites, ", "))
	}
	if !cfg.Survey.HasSite(site) {
		return fmt.Errorf("unknown site %q (one of %s)", site, strings.Join(cfg.Survey.Sites, ", "))
	}
	return nil
}
