package noop

import (
	"context"
	"math/big"

	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/types"
)

// Predictor is the fallback used when no LLM credential is configured.
// It is an explicit default-yes policy, not a test stub.
type Predictor struct{}

func NewPredictor() *Predictor {
	return &Predictor{}
}

// Predict always answers yes (one full unit).
func (p *Predictor) Predict(ctx context.Context, question string, contextData map[string]any) (*big.Int, error) {
	logger.Warn(ctx, "No LLM credential configured - defaulting prediction to yes", "question", question)
	return new(big.Int).Set(types.FullUnit), nil
}
