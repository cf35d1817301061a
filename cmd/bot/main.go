package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bingx-trading-bot/internal/engine"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/portfolio"
	"bingx-trading-bot/internal/trace"
	"bingx-trading-bot/internal/web"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	client, ex := initializeExchange(ctx, cfg)
	eng := initializeEngine(cfg, ex)
	agg := portfolio.NewAggregator(ex)

	var srv *web.Server
	if cfg.Web.Enabled {
		srv = web.NewServer(cfg, ex, agg, client.Authenticated, client.SetCredentials)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				logger.ErrorWithErr(ctx, "Web API stopped", err)
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	logger.Info(ctx, "Bot started",
		"symbol", cfg.Symbol,
		"interval", cfg.Interval,
		"mode", cfg.Mode,
	)

	if err := engine.Run(ctx, eng, cfg); err != nil && ctx.Err() == nil {
		logger.ErrorWithErr(ctx, "Run loop exited", err)
	}

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
