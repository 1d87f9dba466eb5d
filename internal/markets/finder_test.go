package markets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sapience-trading-bot/internal/store"
)

func testConfig(endpoint string) *store.Config {
	cfg := &store.Config{
		GraphEndpoint:   endpoint,
		QuoterEndpoint:  "http://quoter.invalid",
		RPCURL:          "http://rpc.invalid",
		ChainID:         8453,
		CollateralAsset: "0x5875eEE11Cf8398102FdAd704C9E96607675467a",
		BaseTokenName:   "sUSDS",
		WagerWei:        "1000000000000000000",
	}
	return cfg
}

func newTestFinder(t *testing.T, handler http.HandlerFunc, now int64) (*Finder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := New(testConfig(srv.URL))
	f.now = func() time.Time { return time.Unix(now, 0) }
	return f, srv
}

func groupsPayload(groups ...map[string]any) []byte {
	b, _ := json.Marshal(map[string]any{
		"data": map[string]any{"marketGroups": groups},
	})
	return b
}

func TestSoonestClosingPicksEarliestPublic(t *testing.T) {
	payload := groupsPayload(map[string]any{
		"address": "0xgroup1",
		"markets": []map[string]any{
			{"marketId": 1, "question": "private one", "endTimestamp": 100, "public": false},
			{"marketId": 2, "question": "late public", "endTimestamp": 200, "public": true},
			{"marketId": 3, "question": "early public", "endTimestamp": 150, "public": true},
		},
	})

	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}, 10)

	m, err := f.SoonestClosing(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MarketID != 3 {
		t.Errorf("expected market 3 (t=150), got %d", m.MarketID)
	}
	if m.GroupAddress != "0xgroup1" {
		t.Errorf("expected group address to be filled in, got %q", m.GroupAddress)
	}
}

func TestSoonestClosingTieKeepsFirst(t *testing.T) {
	payload := groupsPayload(map[string]any{
		"address": "0xgroup1",
		"markets": []map[string]any{
			{"marketId": 7, "question": "first", "endTimestamp": 150, "public": true},
			{"marketId": 8, "question": "second", "endTimestamp": 150, "public": true},
		},
	})

	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}, 10)

	m, err := f.SoonestClosing(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MarketID != 7 {
		t.Errorf("expected first minimal market to win the tie, got %d", m.MarketID)
	}
}

func TestSoonestClosingSkipsPastMarkets(t *testing.T) {
	payload := groupsPayload(map[string]any{
		"address": "0xgroup1",
		"markets": []map[string]any{
			{"marketId": 1, "question": "already closed", "endTimestamp": 100, "public": true},
			{"marketId": 2, "question": "still open", "endTimestamp": 900, "public": true},
		},
	})

	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}, 500)

	m, err := f.SoonestClosing(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MarketID != 2 {
		t.Errorf("expected market 2, got %d", m.MarketID)
	}
}

func TestSoonestClosingNoActiveMarkets(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"no groups", groupsPayload()},
		{"all private", groupsPayload(map[string]any{
			"address": "0xgroup1",
			"markets": []map[string]any{
				{"marketId": 1, "question": "hidden", "endTimestamp": 150, "public": false},
			},
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(tc.payload)
			}, 10)

			_, err := f.SoonestClosing(context.Background())
			if !errors.Is(err, ErrNoActiveMarkets) {
				t.Errorf("expected ErrNoActiveMarkets, got %v", err)
			}
		})
	}
}

func TestSoonestClosingSendsVariables(t *testing.T) {
	var got graphRequest
	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write(groupsPayload())
	}, 42)

	_, _ = f.SoonestClosing(context.Background())

	if got.Query == "" {
		t.Error("expected a GraphQL query in the request body")
	}
	if v, _ := got.Variables["chainId"].(float64); int64(v) != 8453 {
		t.Errorf("expected chainId 8453, got %v", got.Variables["chainId"])
	}
	if got.Variables["collateralAsset"] != "0x5875eEE11Cf8398102FdAd704C9E96607675467a" {
		t.Errorf("unexpected collateralAsset: %v", got.Variables["collateralAsset"])
	}
	if got.Variables["baseTokenName"] != "sUSDS" {
		t.Errorf("unexpected baseTokenName: %v", got.Variables["baseTokenName"])
	}
	if v, _ := got.Variables["endTimestampGt"].(float64); int64(v) != 42 {
		t.Errorf("expected endTimestampGt 42, got %v", got.Variables["endTimestampGt"])
	}
}

func TestSoonestClosingGraphErrors(t *testing.T) {
	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
	}, 10)

	_, err := f.SoonestClosing(context.Background())
	if err == nil {
		t.Fatal("expected an error for a GraphQL error response")
	}
}

func TestSoonestClosingHTTPError(t *testing.T) {
	f, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusBadGateway)
	}, 10)

	_, err := f.SoonestClosing(context.Background())
	if err == nil {
		t.Fatal("expected an error for a non-success response")
	}
}
