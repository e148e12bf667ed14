package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/pancake-trader/internal/infrastructure/contracts"
)

// PancakeSwap V2 deployment on BSC mainnet.
var (
	RouterAddressV2  = common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")
	FactoryAddressV2 = common.HexToAddress("0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73")
)

// RouterClient talks to a PancakeSwap V2 compatible router contract: quote
// reads plus calldata packing for the swap functions.
type RouterClient struct {
	caller  ContractCaller
	address common.Address
	abi     *abi.ABI
}

// NewRouterClient creates a router client bound to the given router address.
func NewRouterClient(caller ContractCaller, address common.Address) *RouterClient {
	return &RouterClient{
		caller:  caller,
		address: address,
		abi:     contracts.RouterABI(),
	}
}

// Address returns the router contract address.
func (r *RouterClient) Address() common.Address {
	return r.address
}

// AmountsOut calls getAmountsOut along path and returns the final hop's
// output amount. path must have at least two hops.
func (r *RouterClient) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("path must contain at least 2 addresses, got %d", len(path))
	}

	data, err := r.abi.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	result, err := r.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &r.address,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("getAmountsOut call: %w", err)
	}

	var amounts []*big.Int
	if err := r.abi.UnpackIntoInterface(&amounts, "getAmountsOut", result); err != nil {
		return nil, fmt.Errorf("unpack getAmountsOut: %w", err)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("getAmountsOut returned no amounts")
	}
	return amounts[len(amounts)-1], nil
}

// Pack encodes a router method call into transaction calldata.
func (r *RouterClient) Pack(method string, args ...interface{}) ([]byte, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return data, nil
}
