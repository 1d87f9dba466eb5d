package engine

import (
	"context"
	"time"

	"sapience-trading-bot/internal/interfaces"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/news"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/tradelog"
	"sapience-trading-bot/internal/types"
)

// Engine runs the four-step flow: find market, predict, quote, trade. Each
// step's output feeds the next; the first failure aborts the run.
type Engine struct {
	cfg       *store.Config
	finder    interfaces.Finder
	predictor interfaces.Predictor
	quoter    interfaces.Quoter
	trader    interfaces.Trader // nil means dry run
	scraper   *news.Scraper     // nil when prompt context is disabled
}

func New(cfg *store.Config, finder interfaces.Finder, predictor interfaces.Predictor, quoter interfaces.Quoter, trader interfaces.Trader, scraper *news.Scraper) *Engine {
	return &Engine{
		cfg:       cfg,
		finder:    finder,
		predictor: predictor,
		quoter:    quoter,
		trader:    trader,
		scraper:   scraper,
	}
}

func (e *Engine) Run(ctx context.Context) (*types.RunResult, error) {
	op := logger.StartOperation(ctx, "bot.Run")
	ctx = op.GetContext()

	market, err := e.finder.SoonestClosing(ctx)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	closesIn := time.Until(time.Unix(market.EndTimestamp, 0))
	logger.Info(ctx, "Market selected",
		"market_id", market.MarketID,
		"group", market.GroupAddress,
		"closes_in", closesIn.Round(time.Second).String(),
	)

	contextData := e.promptContext(ctx, market.Question)

	prediction, err := e.predictor.Predict(ctx, market.Question, contextData)
	if err != nil {
		op.EndWithError(err, "market_id", market.MarketID)
		return nil, err
	}
	logger.Prediction(ctx, market.MarketID, market.Question, prediction)

	quote, err := e.quoter.Quote(ctx, market, prediction)
	if err != nil {
		op.EndWithError(err, "market_id", market.MarketID)
		return nil, err
	}

	result := &types.RunResult{
		Market:     market,
		Prediction: prediction,
		Quote:      quote,
	}

	if e.trader == nil {
		logger.Warn(ctx, "No trading key configured - dry run, no trade submitted",
			"market_id", market.MarketID,
			"size", quote.MaxSize.String(),
		)
		result.DryRun = true
	} else {
		receipts, err := e.trader.Trade(ctx, market, quote.MaxSize)
		if err != nil {
			op.EndWithError(err, "market_id", market.MarketID)
			return nil, err
		}
		result.Receipts = &receipts
	}

	e.appendLog(ctx, result)
	op.End("market_id", market.MarketID, "size", quote.MaxSize.String(), "dry_run", result.DryRun)
	return result, nil
}

// promptContext scrapes headlines for the question when the scraper is
// enabled. Scrape failures never abort the run.
func (e *Engine) promptContext(ctx context.Context, question string) map[string]any {
	if e.scraper == nil {
		return nil
	}
	headlines, err := e.scraper.Scrape(ctx, question, e.cfg.News.MaxHeadlines)
	if err != nil || len(headlines) == 0 {
		if err != nil {
			logger.Warn(ctx, "Headline scraping failed - predicting without context", "error", err)
		}
		return nil
	}
	return map[string]any{"headlines": headlines}
}

func (e *Engine) appendLog(ctx context.Context, r *types.RunResult) {
	entry := tradelog.Entry{
		MarketID:     r.Market.MarketID,
		GroupAddress: r.Market.GroupAddress,
		Question:     r.Market.Question,
		Prediction:   r.Prediction.String(),
		Size:         r.Quote.MaxSize.String(),
		DryRun:       r.DryRun,
	}
	if r.Receipts != nil {
		entry.ApproveTx = r.Receipts.ApproveTx
		entry.CreateTx = r.Receipts.CreateTx
	}
	if err := tradelog.Append(entry); err != nil {
		logger.Warn(ctx, "Failed to append trade log", "error", err)
	}
}
