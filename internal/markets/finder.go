package markets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sapience-trading-bot/internal/api"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/trace"
	"sapience-trading-bot/internal/types"
)

// ErrNoActiveMarkets is returned when no public market with a future end
// timestamp exists.
var ErrNoActiveMarkets = errors.New("no active markets")

const marketGroupsQuery = `query MarketGroups($chainId: Int!, $collateralAsset: String!, $baseTokenName: String!, $endTimestampGt: Int!) {
  marketGroups(chainId: $chainId, collateralAsset: $collateralAsset, baseTokenName: $baseTokenName) {
    address
    markets(filter: { endTimestamp_gt: $endTimestampGt }) {
      marketId
      question
      endTimestamp
      public
    }
  }
}`

// Finder selects the soonest-closing public market from the GraphQL API.
type Finder struct {
	cfg    *store.Config
	client *api.Client
	now    func() time.Time
}

func New(cfg *store.Config) *Finder {
	return &Finder{
		cfg:    cfg,
		client: api.NewClient(api.WithBaseURL(cfg.GraphEndpoint)),
		now:    time.Now,
	}
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphResponse struct {
	Data struct {
		MarketGroups []types.MarketGroup `json:"marketGroups"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// SoonestClosing queries market groups for the configured chain, collateral
// asset, and base token, flattens their markets, and returns the public one
// with the earliest future end timestamp. Ties keep the first minimal entry.
func (f *Finder) SoonestClosing(ctx context.Context) (types.Market, error) {
	ctx, span := trace.StartSpan(ctx, "markets.SoonestClosing")
	defer span.End()

	now := f.now().Unix()
	req := graphRequest{
		Query: marketGroupsQuery,
		Variables: map[string]any{
			"chainId":         f.cfg.ChainID,
			"collateralAsset": f.cfg.CollateralAsset,
			"baseTokenName":   f.cfg.BaseTokenName,
			"endTimestampGt":  now,
		},
	}

	var resp graphResponse
	if err := f.client.PostJSON(ctx, "", req, &resp); err != nil {
		return types.Market{}, fmt.Errorf("market groups query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return types.Market{}, fmt.Errorf("market groups query: %s", resp.Errors[0].Message)
	}

	logger.Debug(ctx, "Market groups fetched", "groups", len(resp.Data.MarketGroups))

	var best types.Market
	found := false
	for _, group := range resp.Data.MarketGroups {
		for _, m := range group.Markets {
			if !m.Public || m.EndTimestamp <= now {
				continue
			}
			m.GroupAddress = group.Address
			// Strict less-than keeps the first minimal entry on ties.
			if !found || m.EndTimestamp < best.EndTimestamp {
				best = m
				found = true
			}
		}
	}
	if !found {
		return types.Market{}, ErrNoActiveMarkets
	}

	logger.Info(ctx, "Soonest-closing market selected",
		"market_id", best.MarketID,
		"group", best.GroupAddress,
		"end_timestamp", best.EndTimestamp,
		"question", best.Question,
	)
	return best, nil
}
