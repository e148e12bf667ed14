package services

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// DefaultGasLimit matches the router's typical swap/approve consumption.
const DefaultGasLimit uint64 = 250000

// CallParams describes one contract-call transaction to assemble and send.
// GasLimit zero falls back to the builder's default.
type CallParams struct {
	From     common.Address
	To       common.Address
	Value    *big.Int
	GasPrice *big.Int
	GasLimit uint64
	Data     []byte
	Key      *ecdsa.PrivateKey
}

// TxBuilder assembles, signs and broadcasts transactions. Nonce draw through
// broadcast is serialized per instance; parallel trades on the same client
// queue here instead of colliding on a nonce.
type TxBuilder struct {
	mu       sync.Mutex
	ledger   Ledger
	nonces   *NonceTracker
	gasLimit uint64
	logger   *zap.Logger
}

func NewTxBuilder(ledger Ledger, nonces *NonceTracker, gasLimit uint64, logger *zap.Logger) *TxBuilder {
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	return &TxBuilder{
		ledger:   ledger,
		nonces:   nonces,
		gasLimit: gasLimit,
		logger:   logger,
	}
}

// Send draws a nonce, signs a legacy transaction for p and broadcasts it.
// Once a nonce is drawn it is consumed no matter what happens afterwards;
// callers that retry get a fresh slot.
func (b *TxBuilder) Send(ctx context.Context, p CallParams) (common.Hash, error) {
	if p.Key == nil {
		return common.Hash{}, fmt.Errorf("no signing key supplied")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	nonce, err := b.nonces.Next(ctx, p.From)
	if err != nil {
		return common.Hash{}, fmt.Errorf("resolve nonce for %s: %w", p.From.Hex(), err)
	}
	defer func() {
		b.logger.Debug("nonce consumed",
			zap.String("from", p.From.Hex()),
			zap.Uint64("nonce", nonce))
		b.nonces.Advance(p.From, nonce)
	}()

	gas := p.GasLimit
	if gas == 0 {
		gas = b.gasLimit
	}
	value := p.Value
	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: p.GasPrice,
		Gas:      gas,
		To:       &p.To,
		Value:    value,
		Data:     p.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(b.ledger.ChainID()), p.Key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := b.ledger.SendTransaction(ctx, signed); err != nil {
		return signed.Hash(), fmt.Errorf("broadcast transaction: %w", err)
	}
	return signed.Hash(), nil
}
