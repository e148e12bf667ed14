package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
)

// BalanceService reads native and token balances for an account.
type BalanceService struct {
	ledger Ledger
	tokens TokenReader
}

func NewBalanceService(ledger Ledger, tokens TokenReader) *BalanceService {
	return &BalanceService{
		ledger: ledger,
		tokens: tokens,
	}
}

// NativeBalance returns the account's BNB balance in wei.
func (s *BalanceService) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return s.ledger.BalanceAt(ctx, account)
}

// TokenBalance returns the account's balance of token in its smallest unit.
// The native sentinel delegates to NativeBalance.
func (s *BalanceService) TokenBalance(ctx context.Context, account, token common.Address) (*big.Int, error) {
	if entities.IsNative(token) {
		return s.NativeBalance(ctx, account)
	}
	return s.tokens.BalanceOf(ctx, token, account)
}

// TokenInfo returns the token's symbol and decimals. The native sentinel and
// the bundled well-known tokens are answered without touching a contract.
func (s *BalanceService) TokenInfo(ctx context.Context, token common.Address) (string, uint8, error) {
	if entities.IsNative(token) {
		return "BNB", 18, nil
	}
	if known, ok := entities.LookupToken(token); ok {
		return known.Symbol, known.Decimals, nil
	}
	symbol, err := s.tokens.Symbol(ctx, token)
	if err != nil {
		return "", 0, err
	}
	decimals, err := s.tokens.Decimals(ctx, token)
	if err != nil {
		return "", 0, err
	}
	return symbol, decimals, nil
}
