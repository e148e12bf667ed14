package services

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
	"github.com/bimakw/pancake-trader/internal/infrastructure/cache"
)

// PriceService quotes exact-input swaps through the router's getAmountsOut
// and derives the minimum acceptable output under the configured slippage.
type PriceService struct {
	router      Router
	cache       cache.Cache
	wrappedBase common.Address
	maxSlippage float64
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewPriceService(router Router, c cache.Cache, wrappedBase common.Address, maxSlippage float64, logger *zap.Logger) *PriceService {
	return &PriceService{
		router:      router,
		cache:       c,
		wrappedBase: wrappedBase,
		maxSlippage: maxSlippage,
		cacheTTL:    10 * time.Second, // Short TTL for price data
		logger:      logger,
	}
}

// QuoteExactInput returns the final hop's output for swapping amountIn along
// path. Results are cached briefly; a reverted call (no pool for the path)
// surfaces as QuoteUnavailableError.
func (s *PriceService) QuoteExactInput(ctx context.Context, path []common.Address, amountIn *big.Int) (*big.Int, error) {
	if err := entities.ValidateAmount(amountIn); err != nil {
		return nil, err
	}

	cacheKey := cache.QuoteCacheKey(path, amountIn.String())
	if s.cache != nil {
		if cached, err := s.cache.GetQuote(ctx, cacheKey); err == nil && cached != "" {
			if amountOut, ok := new(big.Int).SetString(cached, 10); ok {
				return amountOut, nil
			}
		}
	}

	amountOut, err := s.router.AmountsOut(ctx, amountIn, path)
	if err != nil {
		return nil, &entities.QuoteUnavailableError{Path: path, AmountIn: amountIn, Cause: err}
	}

	if s.cache != nil {
		_ = s.cache.SetQuote(ctx, cacheKey, amountOut.String(), s.cacheTTL)
	}
	return amountOut, nil
}

// Quote resolves the hop path for tokenIn/tokenOut, quotes it, and computes
// the slippage-bounded minimum output.
func (s *PriceService) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*entities.SwapQuote, error) {
	path := entities.ResolvePath(tokenIn, tokenOut, s.wrappedBase)

	amountOut, err := s.QuoteExactInput(ctx, path, amountIn)
	if err != nil {
		return nil, err
	}

	quote := &entities.SwapQuote{
		Path:         path,
		AmountIn:     amountIn,
		AmountOut:    amountOut,
		MinAmountOut: minOutput(amountOut, s.maxSlippage),
	}
	s.logger.Debug("quoted swap",
		zap.String("amountIn", amountIn.String()),
		zap.String("amountOut", amountOut.String()),
		zap.String("minAmountOut", quote.MinAmountOut.String()))
	return quote, nil
}

// minOutput computes floor((1 - maxSlippage) * quoted).
func minOutput(quoted *big.Int, maxSlippage float64) *big.Int {
	scaled := new(big.Float).Mul(
		big.NewFloat(1-maxSlippage),
		new(big.Float).SetInt(quoted),
	)
	out, _ := scaled.Int(nil)
	return out
}
