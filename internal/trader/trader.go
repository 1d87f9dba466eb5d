package trader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"sapience-trading-bot/internal/logger"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/trace"
	"sapience-trading-bot/internal/types"
)

// ErrNoSigningKey is returned when a trade is attempted without a configured
// private key.
var ErrNoSigningKey = errors.New("trading private key not configured")

const erc20ABIJSON = `[{"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}]`

const marketGroupABIJSON = `[{"inputs":[{"name":"marketId","type":"uint256"},{"name":"size","type":"int256"},{"name":"deltaCollateralLimit","type":"uint256"},{"name":"deadline","type":"uint256"}],"name":"createTraderPosition","outputs":[{"name":"positionId","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

var (
	erc20ABI       = mustParseABI(erc20ABIJSON)
	marketGroupABI = mustParseABI(marketGroupABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Trader submits approve and position-creation transactions on-chain.
type Trader struct {
	cfg    *store.Config
	client *ethclient.Client
	auth   *bind.TransactOpts
	wager  *big.Int
	now    func() time.Time
}

// New builds a Trader from the TRADER_PRIVATE_KEY environment variable.
// The key is parsed before any RPC connection is made.
func New(ctx context.Context, cfg *store.Config) (*Trader, error) {
	keyHex := strings.TrimPrefix(os.Getenv("TRADER_PRIVATE_KEY"), "0x")
	if keyHex == "" {
		return nil, ErrNoSigningKey
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("parse trading private key: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	wager, err := cfg.Wager()
	if err != nil {
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Trader{cfg: cfg, client: client, auth: auth, wager: wager, now: time.Now}, nil
}

// tradeDeadline is one hour from now, as a unix timestamp.
func tradeDeadline(now time.Time) *big.Int {
	return big.NewInt(now.Add(time.Hour).Unix())
}

// Trade approves the market group to spend the wager, then creates the trader
// position. Both transactions are awaited for confirmation. There is no
// rollback: a confirmed approval stays in place when the second step fails.
func (t *Trader) Trade(ctx context.Context, market types.Market, size *big.Int) (types.TradeReceipts, error) {
	ctx, span := trace.StartSpan(ctx, "trader.Trade")
	defer span.End()

	groupAddr := common.HexToAddress(market.GroupAddress)
	opts := *t.auth
	opts.Context = ctx

	collateral := bind.NewBoundContract(common.HexToAddress(t.cfg.CollateralAsset), erc20ABI, t.client, t.client, t.client)
	approveTx, err := collateral.Transact(&opts, "approve", groupAddr, t.wager)
	if err != nil {
		return types.TradeReceipts{}, fmt.Errorf("approve: %w", err)
	}
	logger.Info(ctx, "Approval submitted", "tx", approveTx.Hash().Hex(), "spender", market.GroupAddress, "amount", t.wager.String())

	approveReceipt, err := bind.WaitMined(ctx, t.client, approveTx)
	if err != nil {
		return types.TradeReceipts{}, fmt.Errorf("wait for approve: %w", err)
	}
	if approveReceipt.Status != ethtypes.ReceiptStatusSuccessful {
		return types.TradeReceipts{}, fmt.Errorf("approve reverted: tx %s", approveTx.Hash().Hex())
	}

	group := bind.NewBoundContract(groupAddr, marketGroupABI, t.client, t.client, t.client)
	deadline := tradeDeadline(t.now())
	createTx, err := group.Transact(&opts, "createTraderPosition", big.NewInt(market.MarketID), size, t.wager, deadline)
	if err != nil {
		return types.TradeReceipts{}, fmt.Errorf("createTraderPosition: %w", err)
	}
	logger.Info(ctx, "Position creation submitted", "tx", createTx.Hash().Hex(), "market_id", market.MarketID, "size", size.String(), "deadline", deadline.String())

	createReceipt, err := bind.WaitMined(ctx, t.client, createTx)
	if err != nil {
		return types.TradeReceipts{}, fmt.Errorf("wait for createTraderPosition: %w", err)
	}
	if createReceipt.Status != ethtypes.ReceiptStatusSuccessful {
		return types.TradeReceipts{}, fmt.Errorf("createTraderPosition reverted: tx %s", createTx.Hash().Hex())
	}

	receipts := types.TradeReceipts{
		ApproveTx: approveTx.Hash().Hex(),
		CreateTx:  createTx.Hash().Hex(),
	}
	logger.Trade(ctx, market.MarketID, market.GroupAddress, size, receipts.CreateTx)
	return receipts, nil
}
