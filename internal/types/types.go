package types

import "math/big"

// FullUnit is the 1e18 fixed-point unit used for prediction values and
// position sizes. A "yes" prediction is one full unit, a "no" is zero.
var FullUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// MarketGroup is a contract grouping related prediction markets that share
// collateral and chain parameters.
type MarketGroup struct {
	Address string   `json:"address"`
	Markets []Market `json:"markets"`
}

// Market is a single prediction market inside a market group.
type Market struct {
	MarketID     int64  `json:"marketId"`
	Question     string `json:"question"`
	EndTimestamp int64  `json:"endTimestamp"`
	Public       bool   `json:"public"`

	// GroupAddress is filled in when markets are flattened out of their group.
	GroupAddress string `json:"groupAddress,omitempty"`
}

// Quote is the position size obtainable for a fixed collateral wager at a
// given expected price.
type Quote struct {
	MaxSize       *big.Int `json:"maxSize"`
	ExpectedPrice string   `json:"expectedPrice"`
}

// TradeReceipts holds the hashes of the two confirmed transactions of a trade.
type TradeReceipts struct {
	ApproveTx string `json:"approveTx"`
	CreateTx  string `json:"createTx"`
}

// RunResult summarizes a single bot run.
type RunResult struct {
	Market     Market         `json:"market"`
	Prediction *big.Int       `json:"prediction"`
	Quote      Quote          `json:"quote"`
	Receipts   *TradeReceipts `json:"receipts,omitempty"`
	DryRun     bool           `json:"dryRun"`
}
