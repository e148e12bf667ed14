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

// ERC20Client reads standard token state (balanceOf, allowance, metadata)
// and packs approve calldata. One client serves every token contract.
type ERC20Client struct {
	caller ContractCaller
	abi    *abi.ABI
}

func NewERC20Client(caller ContractCaller) *ERC20Client {
	return &ERC20Client{
		caller: caller,
		abi:    contracts.ERC20ABI(),
	}
}

func (c *ERC20Client) read(ctx context.Context, token common.Address, result interface{}, method string, args ...interface{}) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	res, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("%s call on %s: %w", method, token.Hex(), err)
	}
	return c.abi.UnpackIntoInterface(result, method, res)
}

// BalanceOf returns owner's token balance in the token's smallest unit.
func (c *ERC20Client) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	result := new(big.Int)
	err := c.read(ctx, token, &result, "balanceOf", owner)
	return result, err
}

// Allowance returns the amount owner has authorized spender to move.
func (c *ERC20Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	result := new(big.Int)
	err := c.read(ctx, token, &result, "allowance", owner, spender)
	return result, err
}

// Symbol returns the token's ticker symbol.
func (c *ERC20Client) Symbol(ctx context.Context, token common.Address) (string, error) {
	var result string
	err := c.read(ctx, token, &result, "symbol")
	return result, err
}

// Decimals returns the token's decimal count.
func (c *ERC20Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	var result uint8
	err := c.read(ctx, token, &result, "decimals")
	return result, err
}

// PackApprove encodes approve(spender, amount) calldata.
func (c *ERC20Client) PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := c.abi.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	return data, nil
}
