package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/logitrack/config"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "logitrack",
	Short:         "LogiTrack inventory and order API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}

// boot loads configuration and installs the process logger. The returned
// func flushes the Mongo log sink when one is configured.
func boot(ctx context.Context) (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogMongoURI == "" {
		logger.Setup(cfg.AppEnv)
		return cfg, func() {}, nil
	}

	mh, err := logger.NewMongoHandler(ctx, cfg.LogMongoURI, cfg.LogMongoDB, "logs", slog.LevelInfo)
	if err != nil {
		logger.Setup(cfg.AppEnv)
		logger.Warn("mongo log sink disabled", "error", err)
		return cfg, func() {}, nil
	}
	logger.Setup(cfg.AppEnv, mh)

	return cfg, func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mh.Close(flushCtx) //nolint:errcheck
	}, nil
}
