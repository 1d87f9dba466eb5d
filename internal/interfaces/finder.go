package interfaces

import (
	"context"

	"sapience-trading-bot/internal/types"
)

type Finder interface {
	// SoonestClosing returns the public market with the earliest future end
	// timestamp.
	SoonestClosing(ctx context.Context) (types.Market, error)
}
