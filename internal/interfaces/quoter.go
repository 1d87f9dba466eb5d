package interfaces

import (
	"context"
	"math/big"

	"sapience-trading-bot/internal/types"
)

type Quoter interface {
	// Quote returns the maximum position size obtainable for the configured
	// wager given a prediction value.
	Quote(ctx context.Context, market types.Market, prediction *big.Int) (types.Quote, error)
}
