package quoter

import (
	"context"
	"fmt"
	"math/big"
	"net/url"

	"github.com/shopspring/decimal"

	"sapience-trading-bot/internal/api"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/trace"
	"sapience-trading-bot/internal/types"
)

var (
	priceYes = decimal.NewFromInt(1)
	// The quoting API rejects non-positive prices, so a "no" prediction is
	// quoted at a near-zero sentinel instead of 0.
	priceNoSentinel = decimal.RequireFromString("0.0000001")
)

// Quoter fetches the maximum position size for a fixed wager from the REST
// quoter endpoint.
type Quoter struct {
	cfg    *store.Config
	client *api.Client
	wager  *big.Int
}

func New(cfg *store.Config) (*Quoter, error) {
	wager, err := cfg.Wager()
	if err != nil {
		return nil, err
	}
	return &Quoter{
		cfg:    cfg,
		client: api.NewClient(api.WithBaseURL(cfg.QuoterEndpoint)),
		wager:  wager,
	}, nil
}

// ExpectedPrice converts a prediction value into the decimal price string the
// quoter accepts: "1.0" for yes, the near-zero sentinel for no.
func ExpectedPrice(prediction *big.Int) string {
	if prediction.Sign() == 0 {
		return priceNoSentinel.String()
	}
	return priceYes.StringFixed(1)
}

type quoteResponse struct {
	MaxSize string `json:"maxSize"`
}

// Quote requests the maximum size obtainable for the configured wager at the
// prediction's expected price. The returned size is an unsigned magnitude.
func (q *Quoter) Quote(ctx context.Context, market types.Market, prediction *big.Int) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "quoter.Quote")
	defer span.End()

	price := ExpectedPrice(prediction)
	query := url.Values{}
	query.Set("collateralAvailable", q.wager.String())
	query.Set("expectedPrice", price)
	path := fmt.Sprintf("/quoter/%d/%s/%d?%s", q.cfg.ChainID, market.GroupAddress, market.MarketID, query.Encode())

	var resp quoteResponse
	if err := q.client.GetJSON(ctx, path, &resp); err != nil {
		return types.Quote{}, fmt.Errorf("quote request: %w", err)
	}

	size, ok := new(big.Int).SetString(resp.MaxSize, 10)
	if !ok {
		return types.Quote{}, fmt.Errorf("invalid maxSize '%s' in quote response", resp.MaxSize)
	}
	// The quoter signs the size by trade direction; the position size is its
	// magnitude.
	size.Abs(size)

	logger.Info(ctx, "Quote received",
		"market_id", market.MarketID,
		"group", market.GroupAddress,
		"expected_price", price,
		"max_size", size.String(),
	)
	return types.Quote{MaxSize: size, ExpectedPrice: price}, nil
}
