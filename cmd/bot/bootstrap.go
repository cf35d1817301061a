package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bingx-trading-bot/internal/api"
	"bingx-trading-bot/internal/bingx"
	"bingx-trading-bot/internal/bingx/bingxobs"
	"bingx-trading-bot/internal/engine"
	"bingx-trading-bot/internal/engine/engineobs"
	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/store"
	"bingx-trading-bot/internal/strategy"
	"bingx-trading-bot/internal/trace"
	"bingx-trading-bot/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes the logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeExchange initializes the BingX client with observability
func initializeExchange(ctx context.Context, cfg *store.Config) (*bingx.Client, interfaces.Exchange) {
	creds := store.LoadCredentials()

	client := bingx.New(bingx.Params{
		BaseURL:        cfg.BaseURL,
		Credentials:    creds,
		Mode:           cfg.Mode,
		TradingEnabled: cfg.Trading.Enabled,
		CandleSource:   cfg.DataSource,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		Retry: api.RetryConfig{
			MaxAttempts: cfg.HTTP.MaxAttempts,
			Delay:       time.Duration(cfg.HTTP.RetryDelayMs) * time.Millisecond,
		},
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	if cfg.DataSource == "LIVE" {
		logger.Info(ctx, "Using LIVE candle data from BingX")
	} else {
		logger.Info(ctx, "Using STATIC mock candle data for testing")
	}
	if !client.Authenticated() {
		logger.Warn(ctx, "API credentials not configured - authenticated endpoints disabled")
	}

	// Wrap with observability middleware
	return client, bingxobs.Wrap(client)
}

// initializeEngine initializes the trading engine with observability
func initializeEngine(cfg *store.Config, ex interfaces.Exchange) interfaces.Engine {
	eval := strategy.NewBandBounce(
		cfg.Indicators.RSIBuy,
		cfg.Indicators.RSISell,
		cfg.Indicators.BBWindow+1,
	)

	eng := engine.New(cfg, ex, eval)

	// Wrap with observability middleware
	return engineobs.Wrap(eng)
}
