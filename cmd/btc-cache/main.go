package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/StrathCole/btc-cache/pkg/aggregator"
	"github.com/StrathCole/btc-cache/pkg/artifact"
	"github.com/StrathCole/btc-cache/pkg/config"
	"github.com/StrathCole/btc-cache/pkg/logging"
	"github.com/StrathCole/btc-cache/pkg/metrics"
	"github.com/StrathCole/btc-cache/pkg/transport/websocket"
	"github.com/StrathCole/btc-cache/pkg/version"
)

const defaultConfigFile = "config/config.yaml"

var (
	configFile = flag.String("config", defaultConfigFile, "Path to configuration file")
	duration   = flag.Int("duration", 0, "Seconds each feed session listens (overrides config)")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("btc-cache version %s\n", version.Version)
		os.Exit(0)
	}

	os.Exit(run())
}

func run() int {
	// Missing .env is fine; variables may come from the environment
	_ = godotenv.Load()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if *duration > 0 {
		cfg.Duration = config.Duration(time.Duration(*duration) * time.Second)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logging.SetGlobal(logger)

	logger.Info("Starting btc-cache",
		"version", version.Version,
		"symbol", cfg.Symbol,
		"duration", cfg.Duration.ToDuration().String(),
		"mode", cfg.NormalizeMode(),
	)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// SIGINT/SIGTERM move every session straight to draining
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := artifact.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize artifact storage", "error", err)
		return 1
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("Failed to close artifact storage", "error", err)
		}
	}()

	dialer := websocket.NewDialer(websocket.Config{
		HandshakeTimeout: cfg.Session.HandshakeTimeout.ToDuration(),
		CloseGrace:       cfg.Session.CloseGrace.ToDuration(),
		Headers:          http.Header{"User-Agent": []string{version.AgentString()}},
		Logger:           logger.ZerologLogger(),
	})

	agg, err := aggregator.New(aggregator.Config{
		Symbol:           cfg.Symbol,
		Mode:             cfg.NormalizeMode(),
		HandshakeTimeout: cfg.Session.HandshakeTimeout.ToDuration(),
		CloseGrace:       cfg.Session.CloseGrace.ToDuration(),
		HDPath:           cfg.Session.HDPath,
		ReportFile:       cfg.Output.ReportFile,
		SessionPath:      cfg.SessionArtifactPath,
		Dialer:           dialer,
		Writer:           writer,
		Logger:           logger,
	})
	if err != nil {
		logger.Error("Failed to create aggregator", "error", err)
		return 1
	}

	report, err := agg.Run(ctx, cfg.EnabledFeeds(), cfg.Duration.ToDuration())
	if err != nil && !errors.Is(err, aggregator.ErrNoData) {
		logger.Error("Aggregation failed", "error", err)
		return 1
	}

	fmt.Printf("Total Cache complete. The average %s price of %s is: %s\n",
		report.Quote, report.Base, report.AverageText())

	if report.NoData {
		return 2
	}
	return 0
}

// loadConfig reads path, falling back to built-in defaults when the default
// config file is absent.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}
