package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bimakw/pancake-trader/internal/config"
	"github.com/bimakw/pancake-trader/internal/domain/entities"
	"github.com/bimakw/pancake-trader/internal/domain/services"
	"github.com/bimakw/pancake-trader/internal/infrastructure/cache"
	"github.com/bimakw/pancake-trader/internal/infrastructure/dex"
	"github.com/bimakw/pancake-trader/internal/infrastructure/ethereum"
	"github.com/bimakw/pancake-trader/internal/presentation/handlers"
)

const version = "0.1.0"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	key, err := ethereum.ParseKey(cfg.Wallet.PrivateKey)
	if err != nil {
		logger.Fatal("failed to parse wallet key", zap.Error(err))
	}
	sender := ethereum.KeyAddress(key)

	routerAddr, err := entities.ParseAddress(cfg.Chain.Router)
	if err != nil {
		logger.Fatal("invalid router address", zap.Error(err))
	}
	wbnbAddr, err := entities.ParseAddress(cfg.Chain.WBNB)
	if err != nil {
		logger.Fatal("invalid wbnb address", zap.Error(err))
	}

	ethClient, err := ethereum.NewClient(cfg.Chain.RPCURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to BSC", zap.Error(err))
	}
	defer ethClient.Close()
	logger.Info("connected to BSC",
		zap.String("chainId", ethClient.ChainID().String()),
		zap.String("wallet", sender.Hex()))

	var cacheClient cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("failed to connect to redis, using in-memory cache", zap.Error(err))
			cacheClient = cache.NewInMemoryCache()
		} else {
			cacheClient = redisCache
			logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		}
	} else {
		cacheClient = cache.NewInMemoryCache()
		logger.Info("using in-memory cache")
	}

	routerClient := dex.NewRouterClient(ethClient, routerAddr)
	erc20Client := dex.NewERC20Client(ethClient)

	nonces := services.NewNonceTracker(ethClient)
	builder := services.NewTxBuilder(ethClient, nonces, cfg.Trade.GasLimit, logger)
	priceService := services.NewPriceService(routerClient, cacheClient, wbnbAddr, cfg.Trade.MaxSlippage, logger)
	balanceService := services.NewBalanceService(ethClient, erc20Client)
	approvalService := services.NewApprovalService(erc20Client, ethClient, builder, routerAddr,
		time.Duration(cfg.Trade.ApprovalTimeoutSec)*time.Second, logger)
	tradeService := services.NewTradeService(priceService, balanceService, approvalService, builder,
		routerClient, cfg.Trade.GasLimit, logger)

	defaultGasPrice := gweiToWei(cfg.Trade.GasPriceGwei)

	healthHandler := handlers.NewHealthHandler(version, ethClient.ChainID().String())
	quoteHandler := handlers.NewQuoteHandler(priceService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	swapHandler := handlers.NewSwapHandler(tradeService, approvalService, key, sender, defaultGasPrice)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/health", healthHandler.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quote", quoteHandler.GetQuote)
		r.Get("/balance/{address}", balanceHandler.GetBalance)
		r.Post("/swap", swapHandler.Swap)
		r.Post("/approve", swapHandler.Approve)
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting pancake-trader API",
			zap.String("version", version),
			zap.String("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func gweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9)).Int(nil)
	return wei
}
