package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
)

func approveAll(r *rig, tokens ...common.Address) {
	for _, token := range tokens {
		r.tokens.allowances[token] = new(big.Int).Set(MaxApproval)
	}
}

func TestExecuteTradeInsufficientBalance(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(50)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(100),
		GasPrice:    big.NewInt(1),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.Error(t, err)

	var short *entities.InsufficientBalanceError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, int64(50), short.Had.Int64())
	assert.Equal(t, int64(100), short.Needed.Int64())
	assert.Zero(t, r.ledger.sentCount(), "a failed pre-flight must not broadcast anything")
}

func TestExecuteTradeInvalidQuantity(t *testing.T) {
	r := newRig(t)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(0),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.True(t, errors.Is(err, entities.ErrInvalidQuantity))
	assert.Zero(t, r.ledger.sentCount())

	_, err = r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    new(big.Int).Lsh(big.NewInt(1), 300),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.True(t, errors.Is(err, entities.ErrAmountOverflow))
	assert.Zero(t, r.ledger.sentCount())
}

func TestExecuteTradeMissingGasPrice(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(500)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(100),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.True(t, errors.Is(err, entities.ErrInvalidGasPrice))
	assert.Zero(t, r.ledger.sentCount(), "a request without a gas price must never be signed")
}

func TestExecuteTradeNativeToToken(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.ledger.balances[r.sender] = big.NewInt(2_000_000)

	quantity := big.NewInt(1_000_000)
	hash, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  entities.NativeToken,
		OutputToken: testToken,
		Quantity:    quantity,
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, hash)

	require.Equal(t, 1, r.ledger.sentCount())
	tx := r.ledger.sent[0]
	assert.Equal(t, testRouterAddr, *tx.To())
	assert.Zero(t, tx.Value().Cmp(quantity), "a native-input swap carries the quantity as value")
	assert.Equal(t, []byte("swapExactETHForTokens"), tx.Data())
	assert.Equal(t, []common.Address{entities.WBNB.Address, testToken}, r.router.lastPath)
}

func TestExecuteTradeTokenToNative(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(500)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(500),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.NoError(t, err)

	require.Equal(t, 1, r.ledger.sentCount())
	tx := r.ledger.sent[0]
	assert.Zero(t, tx.Value().Sign(), "a token-input swap carries no value")
	assert.Equal(t, []byte("swapExactTokensForETHSupportingFeeOnTransferTokens"), tx.Data())
	assert.Equal(t, []common.Address{testToken, entities.WBNB.Address}, r.router.lastPath)
}

func TestExecuteTradeTokenToWrappedBaseDirect(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken, entities.WBNB.Address)
	r.tokens.balances[testToken] = big.NewInt(500)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.WBNB.Address,
		Quantity:    big.NewInt(500),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("swapExactTokensForTokens"), r.ledger.sent[0].Data())
	assert.Len(t, r.router.lastPath, 2, "a pair touching the wrapped base must not route through it twice")
}

func TestExecuteTradeApprovesBeforeSwapping(t *testing.T) {
	r := newRig(t)
	r.tokens.balances[testToken] = big.NewInt(500)

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(500),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.NoError(t, err)

	require.Equal(t, 2, r.ledger.sentCount())
	assert.Equal(t, testToken, *r.ledger.sent[0].To(), "the allowance grant must land first")
	assert.Equal(t, testRouterAddr, *r.ledger.sent[1].To())
}

func TestExecuteTradeNoncesIncreaseWithStaleLedger(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(1000)
	r.ledger.nonce = 5 // never advances, as a real node lags rapid sends

	req := func() *entities.TradeRequest {
		return &entities.TradeRequest{
			InputToken:  testToken,
			OutputToken: entities.NativeToken,
			Quantity:    big.NewInt(100),
			GasPrice:    big.NewInt(5),
			Sender:      r.sender,
			Key:         r.key,
		}
	}
	_, err := r.trades.ExecuteTrade(context.Background(), req())
	require.NoError(t, err)
	_, err = r.trades.ExecuteTrade(context.Background(), req())
	require.NoError(t, err)

	require.Equal(t, 2, r.ledger.sentCount())
	assert.Equal(t, uint64(5), r.ledger.sent[0].Nonce())
	assert.Equal(t, uint64(6), r.ledger.sent[1].Nonce())
}

func TestExecuteTradeQuoteUnavailable(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(500)
	r.router.quoteErr = errors.New("execution reverted")

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(100),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.True(t, errors.Is(err, entities.ErrQuoteUnavailable))
	assert.Zero(t, r.ledger.sentCount())
}

func TestExecuteTradeBroadcastFailure(t *testing.T) {
	r := newRig(t)
	approveAll(r, testToken)
	r.tokens.balances[testToken] = big.NewInt(500)
	r.ledger.sendErr = errors.New("underpriced")

	_, err := r.trades.ExecuteTrade(context.Background(), &entities.TradeRequest{
		InputToken:  testToken,
		OutputToken: entities.NativeToken,
		Quantity:    big.NewInt(100),
		GasPrice:    big.NewInt(5),
		Sender:      r.sender,
		Key:         r.key,
	})
	require.True(t, errors.Is(err, entities.ErrSwapReverted))
}

func TestQuoteAppliesSlippageBound(t *testing.T) {
	r := newRig(t)
	r.router.amountOut = big.NewInt(1000)

	quote, err := r.trades.Quote(context.Background(), testToken, entities.NativeToken, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), quote.AmountOut.Int64())
	assert.Equal(t, int64(900), quote.MinAmountOut.Int64())
}
