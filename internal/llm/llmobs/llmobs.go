package llmobs

import (
	"context"
	"math/big"

	"sapience-trading-bot/internal/interfaces"
	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/trace"
)

// observablePredictor wraps a Predictor with observability (logging & tracing)
type observablePredictor struct {
	predictor interfaces.Predictor
}

// Compile-time interface check
var _ interfaces.Predictor = (*observablePredictor)(nil)

// Wrap wraps a predictor with observability middleware
func Wrap(predictor interfaces.Predictor) interfaces.Predictor {
	return &observablePredictor{
		predictor: predictor,
	}
}

// Predict answers the market question with observability
func (op *observablePredictor) Predict(ctx context.Context, question string, contextData map[string]any) (*big.Int, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Predict")
	defer span.End()

	logger.Debug(ctx, "Requesting prediction", "question", question)

	value, err := op.predictor.Predict(ctx, question, contextData)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to get prediction", err, "question", question)
		return nil, err
	}

	logger.Info(ctx, "Prediction received", "question", question, "value", value.String())
	return value, nil
}
