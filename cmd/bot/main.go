package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sapience-trading-bot/internal/engine"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "tracer shutdown: %v\n", err)
		}
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	eng := engine.New(
		cfg,
		initializeFinder(cfg),
		initializePredictor(ctx, cfg),
		initializeQuoter(ctx, cfg),
		initializeTrader(ctx, cfg),
		initializeScraper(ctx, cfg),
	)

	result, err := eng.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Bot run failed", err)
		os.Exit(1)
	}

	b, _ := json.Marshal(result)
	fmt.Println(string(b))
}
