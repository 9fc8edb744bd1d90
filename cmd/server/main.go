package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/jsexec/internal/engine"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/config"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/server"
	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/GriffinCanCode/jsexec/internal/service"
	"github.com/GriffinCanCode/jsexec/internal/transport/mcpserver"
)

// Version is set at build time
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	transport string
	addr      string
	logLevel  string
	dev       bool
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "jsexec",
		Short:         "Sandboxed JavaScript execution tool server",
		Long:          "jsexec serves one tool, execute_js, which runs untrusted JavaScript in a capability-stripped goja runtime under time and memory bounds. It speaks MCP over stdio or JSON over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	root.Flags().StringVar(&f.transport, "transport", config.TransportStdio, "transport to serve: stdio or http")
	root.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.Flags().BoolVar(&f.dev, "dev", false, "development logging (overrides LOG_DEV)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jsexec %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	return root
}

// applyFlags lets explicitly set flags win over the environment
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport = f.transport
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = f.dev
	}
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logCfg.Level = cfg.Logging.Level
	return logging.New(logCfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Initializing jsexec",
		zap.String("version", Version),
		zap.String("transport", cfg.Server.Transport),
		zap.Int("engine_pool", cfg.Engine.PoolSize),
	)

	eng, err := engine.New(engine.Options{
		PoolSize:         cfg.Engine.PoolSize,
		MaxCallStackSize: cfg.Engine.MaxCallStack,
		MemoryPoll:       cfg.Engine.MemoryPoll,
	})
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer eng.Close()

	executor := sandbox.NewExecutor(eng, sandbox.WithAbandonGrace(cfg.Engine.AbandonGrace))

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	registry := service.NewRegistry()
	if err := registry.Register(service.NewJSTool(executor, logger, metrics)); err != nil {
		return err
	}

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		srv := server.NewServer(cfg, server.Deps{
			Registry:    registry,
			Metrics:     metrics,
			Gatherer:    prometheus.DefaultGatherer,
			EngineStats: eng.Stats,
			Logger:      logger,
			Version:     Version,
		})
		err = srv.Run(ctx)
	default:
		err = mcpserver.NewServer(registry, logger, Version).Serve(ctx, os.Stdin, os.Stdout)
	}

	if err != nil && ctx.Err() == nil {
		logger.Error("Server stopped", zap.Error(err))
		return err
	}
	logger.Info("Shut down cleanly")
	return nil
}
