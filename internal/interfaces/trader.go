package interfaces

import (
	"context"
	"math/big"

	"sapience-trading-bot/internal/types"
)

type Trader interface {
	// Trade approves the wager and submits a position-creation transaction,
	// waiting for both receipts.
	Trade(ctx context.Context, market types.Market, size *big.Int) (types.TradeReceipts, error)
}
