package interfaces

import (
	"context"
	"math/big"
)

type Predictor interface {
	// Predict answers the market question with a 1e18-scaled value: one full
	// unit for yes, zero for no. contextData carries optional prompt context
	// such as scraped headlines.
	Predict(ctx context.Context, question string, contextData map[string]any) (*big.Int, error)
}
