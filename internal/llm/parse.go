package llm

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"sapience-trading-bot/internal/types"
)

// ErrUnparseablePrediction is returned when the model reply contains neither
// "yes" nor "no".
var ErrUnparseablePrediction = errors.New("couldn't parse prediction")

// DefaultSystemPrompt demands a terse, machine-parseable answer.
const DefaultSystemPrompt = `You are a prediction engine for on-chain prediction markets. ` +
	`Research the question and reply with your best forecast. ` +
	`Your final answer must be exactly "Yes", "No", or a number. No explanation, no punctuation, nothing else.`

// ParsePrediction maps a model reply to a 1e18-scaled prediction value:
// one full unit for yes, zero for no.
//
// "yes" is checked before "no", so a reply containing both words counts as
// yes. First match wins.
func ParsePrediction(text string) (*big.Int, error) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "yes") {
		return new(big.Int).Set(types.FullUnit), nil
	} else if strings.Contains(lower, "no") {
		return big.NewInt(0), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnparseablePrediction, strings.TrimSpace(text))
}
