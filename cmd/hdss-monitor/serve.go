package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdss-monitor/internal/runner"
	"hdss-monitor/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report tables over HTTP",
	Long: `Serves every site's tables as JSON or CSV:

  GET  /sites
  GET  /sites/{site}/tables
  GET  /sites/{site}/tables/{table}
  GET  /sites/{site}/tables/{table}.csv
  POST /refresh[?site=]
  GET  /metrics

Reports are cached per site for server.cache_ttl.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	driver, err := connect(context.Background())
	if err != nil {
		return err
	}
	defer driver.Close()

	p, err := runner.New(driver, cfg, logger)
	if err != nil {
		return err
	}

	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := server.New(p, cfg, logger).NewHTTPServer(addr)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
