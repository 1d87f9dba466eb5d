package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sapience-trading-bot/internal/interfaces"
	"sapience-trading-bot/internal/llm/claude"
	"sapience-trading-bot/internal/llm/llmobs"
	"sapience-trading-bot/internal/llm/noop"
	"sapience-trading-bot/internal/llm/openai"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/markets"
	"sapience-trading-bot/internal/news"
	"sapience-trading-bot/internal/quoter"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/trace"
	"sapience-trading-bot/internal/tradelog"
	"sapience-trading-bot/internal/trader"
)

// initializeSystem loads the environment and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
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

// initializeFinder returns the GraphQL market finder
func initializeFinder(cfg *store.Config) interfaces.Finder {
	return markets.New(cfg)
}

// initializePredictor picks the LLM predictor by provider and configured
// credential, with observability. No credential means default-yes.
func initializePredictor(ctx context.Context, cfg *store.Config) interfaces.Predictor {
	var predictor interfaces.Predictor

	switch {
	case cfg.LLM.Provider == "OPENAI" && os.Getenv("OPENAI_API_KEY") != "":
		predictor = openai.NewPredictor(cfg)
	case cfg.LLM.Provider == "CLAUDE" && os.Getenv("CLAUDE_API_KEY") != "":
		predictor = claude.NewPredictor(cfg)
	default:
		predictor = noop.NewPredictor()
		logger.Warn(ctx, "No LLM provider credential configured - predictions default to yes")
	}

	return llmobs.Wrap(predictor)
}

// initializeQuoter returns the REST quoter client
func initializeQuoter(ctx context.Context, cfg *store.Config) interfaces.Quoter {
	q, err := quoter.New(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize quoter", err)
		os.Exit(1)
	}
	return q
}

// initializeTrader returns the on-chain trader, or nil for a dry run when no
// signing key is configured
func initializeTrader(ctx context.Context, cfg *store.Config) interfaces.Trader {
	t, err := trader.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, trader.ErrNoSigningKey) {
			logger.Warn(ctx, "TRADER_PRIVATE_KEY not set - running in dry-run mode")
			return nil
		}
		logger.ErrorWithErr(ctx, "Failed to initialize trader", err)
		os.Exit(1)
	}
	return t
}

// initializeScraper returns the headline scraper when prompt context is
// enabled in config
func initializeScraper(ctx context.Context, cfg *store.Config) *news.Scraper {
	if !cfg.News.Enabled {
		logger.Debug(ctx, "Headline scraping disabled in config")
		return nil
	}
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return news.NewScraper(timeout)
}
