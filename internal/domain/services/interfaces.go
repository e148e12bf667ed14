package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Ledger is the slice of the RPC client the services depend on. Implemented
// by infrastructure/ethereum.Client.
type Ledger interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	ChainID() *big.Int
}

// Router quotes swaps and packs router calldata. Implemented by
// infrastructure/dex.RouterClient.
type Router interface {
	AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error)
	Pack(method string, args ...interface{}) ([]byte, error)
	Address() common.Address
}

// TokenReader reads ERC20 state and packs approve calldata. Implemented by
// infrastructure/dex.ERC20Client.
type TokenReader interface {
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	PackApprove(spender common.Address, amount *big.Int) ([]byte, error)
}
