package services

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
)

// deadlineWindow is how far ahead of the current time a swap's deadline is
// set.
const deadlineWindow = 10 * time.Minute

// TradeService executes exact-input swaps end to end: approval guard,
// balance pre-flight, path selection, quote, slippage bound, transaction
// build/sign/broadcast. It returns the transaction hash without waiting for
// the swap to confirm; only the approval sub-step blocks on a receipt.
type TradeService struct {
	prices    *PriceService
	balances  *BalanceService
	approvals *ApprovalService
	builder   *TxBuilder
	router    Router
	gasLimit  uint64
	logger    *zap.Logger
}

func NewTradeService(prices *PriceService, balances *BalanceService, approvals *ApprovalService, builder *TxBuilder, router Router, gasLimit uint64, logger *zap.Logger) *TradeService {
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	return &TradeService{
		prices:    prices,
		balances:  balances,
		approvals: approvals,
		builder:   builder,
		router:    router,
		gasLimit:  gasLimit,
		logger:    logger,
	}
}

// ExecuteTrade validates and executes req, returning the swap transaction's
// hash. All local validation happens before any network mutation; a failed
// broadcast still consumes the drawn nonce.
func (s *TradeService) ExecuteTrade(ctx context.Context, req *entities.TradeRequest) (common.Hash, error) {
	if err := req.Normalize(); err != nil {
		return common.Hash{}, err
	}
	mode := req.Mode()

	// Approval guard runs before balance and slippage logic, mirroring the
	// allowance convention: both sides of the trade must be spendable by the
	// router before anything else is attempted.
	if err := s.approvals.EnsureApproved(ctx, req.Sender, req.Key, req.GasPrice, req.InputToken, req.OutputToken); err != nil {
		return common.Hash{}, err
	}

	balance, err := s.balances.TokenBalance(ctx, req.Sender, req.InputToken)
	if err != nil {
		return common.Hash{}, err
	}
	if balance.Cmp(req.Quantity) < 0 {
		return common.Hash{}, &entities.InsufficientBalanceError{Had: balance, Needed: req.Quantity}
	}

	quote, err := s.prices.Quote(ctx, req.InputToken, req.OutputToken, req.Quantity)
	if err != nil {
		return common.Hash{}, err
	}

	deadline := big.NewInt(time.Now().Add(deadlineWindow).Unix())

	var (
		data  []byte
		value *big.Int
	)
	switch mode {
	case entities.NativeToToken:
		value = req.Quantity
		data, err = s.router.Pack("swapExactETHForTokens",
			quote.MinAmountOut, quote.Path, req.Recipient, deadline)
	case entities.TokenToNative:
		value = big.NewInt(0)
		data, err = s.router.Pack("swapExactTokensForETHSupportingFeeOnTransferTokens",
			req.Quantity, quote.MinAmountOut, quote.Path, req.Recipient, deadline)
	case entities.TokenToToken:
		value = big.NewInt(0)
		data, err = s.router.Pack("swapExactTokensForTokens",
			req.Quantity, quote.MinAmountOut, quote.Path, req.Recipient, deadline)
	}
	if err != nil {
		return common.Hash{}, err
	}

	s.logger.Info("executing trade",
		zap.String("mode", string(mode)),
		zap.String("quantity", req.Quantity.String()),
		zap.String("minAmountOut", quote.MinAmountOut.String()),
		zap.String("recipient", req.Recipient.Hex()))

	hash, err := s.builder.Send(ctx, CallParams{
		From:     req.Sender,
		To:       s.router.Address(),
		Value:    value,
		GasPrice: req.GasPrice,
		GasLimit: s.gasLimit,
		Data:     data,
		Key:      req.Key,
	})
	if err != nil {
		return hash, &entities.SwapRevertedError{Hash: hash, Cause: err}
	}
	return hash, nil
}

// Quote exposes the price oracle for callers that only want numbers.
func (s *TradeService) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*entities.SwapQuote, error) {
	return s.prices.Quote(ctx, tokenIn, tokenOut, amountIn)
}
