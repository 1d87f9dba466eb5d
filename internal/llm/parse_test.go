package llm

import (
	"errors"
	"math/big"
	"testing"

	"sapience-trading-bot/internal/types"
)

func TestParsePrediction(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		want    *big.Int
		wantErr bool
	}{
		{"plain yes", "Yes", types.FullUnit, false},
		{"yes with trailing text", "Yes, things look good.", types.FullUnit, false},
		{"plain no", "No.", big.NewInt(0), false},
		{"uppercase no", "NO", big.NewInt(0), false},
		{"unparseable", "Maybe", nil, true},
		{"empty", "", nil, true},
		// "yes" is checked first, so a reply with both words counts as yes.
		{"both words", "No, definitely not - yes it could still happen", types.FullUnit, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePrediction(tc.text)
			if tc.wantErr {
				if !errors.Is(err, ErrUnparseablePrediction) {
					t.Fatalf("expected ErrUnparseablePrediction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Cmp(tc.want) != 0 {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParsePredictionDoesNotMutateFullUnit(t *testing.T) {
	got, err := ParsePrediction("yes")
	if err != nil {
		t.Fatal(err)
	}
	got.SetInt64(0)
	if types.FullUnit.Cmp(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)) != 0 {
		t.Error("FullUnit was mutated through a returned prediction")
	}
}
