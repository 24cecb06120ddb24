package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rratsunrollun/rollun-usps/internal/graphql"
	"github.com/rratsunrollun/rollun-usps/internal/server"
	"github.com/rratsunrollun/rollun-usps/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rollun-usps",
	Short:   "Best shipping method selection across rollun suppliers",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL and REST server",
	RunE:  runServe,
}

var selectCmd = &cobra.Command{
	Use:   "select <productId> <zip>",
	Short: "Select the best shipping method for one product and print it as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runSelect,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(selectCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	// Configuration errors stop the process here
	sel, err := initSelection(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize selection", zap.Error(err))
		return err
	}
	defer sel.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)
	metrics.ObserveCache(sel.cache)

	resolver := graphql.NewResolver(sel.registry, sel.selector, logger, metrics)

	logger.Info("Starting rollun-usps",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("suppliers", sel.registry.Names()),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, resolver, reg, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sel, err := initSelection(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sel.Close()

	result, err := sel.selector.Select(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
