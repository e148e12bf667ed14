package ethereum

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const receiptPollInterval = 2 * time.Second

// Client wraps the go-ethereum client with rate limiting and a circuit
// breaker so a flapping RPC endpoint fails fast instead of hanging every
// caller.
type Client struct {
	client  *ethclient.Client
	rpcURL  string
	chainID *big.Int
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient dials the RPC endpoint and probes its chain ID.
func NewClient(rpcURL string, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "eth-rpc",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		client:  client,
		rpcURL:  rpcURL,
		chainID: chainID,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		breaker: breaker,
		logger:  logger,
	}, nil
}

// Close closes the underlying client connection.
func (c *Client) Close() {
	c.client.Close()
}

// ChainID returns the chain ID probed at dial time.
func (c *Client) ChainID() *big.Int {
	return c.chainID
}

func (c *Client) execute(ctx context.Context, op func() (interface{}, error)) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.breaker.Execute(op)
}

// BalanceAt reads the native-currency balance of account at the latest block.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	res, err := c.execute(ctx, func() (interface{}, error) {
		return c.client.BalanceAt(ctx, account, nil)
	})
	if err != nil {
		return nil, err
	}
	return res.(*big.Int), nil
}

// PendingNonceAt returns the ledger's reported transaction count for account,
// including pending transactions.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	res, err := c.execute(ctx, func() (interface{}, error) {
		return c.client.PendingNonceAt(ctx, account)
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// CallContract executes a read-only contract call.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	res, err := c.execute(ctx, func() (interface{}, error) {
		return c.client.CallContract(ctx, msg, nil)
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

// SuggestGasPrice suggests a gas price based on recent blocks.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	res, err := c.execute(ctx, func() (interface{}, error) {
		return c.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(*big.Int), nil
}

// SendTransaction broadcasts a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	_, err := c.execute(ctx, func() (interface{}, error) {
		return nil, c.client.SendTransaction(ctx, tx)
	})
	return err
}

// WaitMined polls for the receipt of hash until it appears or ctx expires.
// Polling bypasses the circuit breaker: a receipt that is not there yet is
// not an endpoint failure.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.logger.Debug("receipt poll failed",
				zap.String("tx", hash.Hex()),
				zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
