package services

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
)

// MaxApproval is the amount granted by default: the maximum representable
// uint256.
var MaxApproval, _ = new(big.Int).SetString(strings.Repeat("f", 64), 16)

// ApprovedThreshold is deliberately below the theoretical max. Allowances
// shrink as the router spends them, and pre-existing approvals granted under
// the same convention must still count as effectively unlimited.
var ApprovedThreshold, _ = new(big.Int).SetString(strings.Repeat("f", 49), 16)

const (
	// DefaultApprovalWait bounds the receipt wait for an approval.
	DefaultApprovalWait = 6000 * time.Second
	// approvalSettleDelay gives nodes a moment to index the new allowance
	// before the dependent swap is built.
	approvalSettleDelay = 1 * time.Second
)

// ApprovalService checks and grants the router's allowance on ERC20 tokens,
// idempotently.
type ApprovalService struct {
	tokens      TokenReader
	ledger      Ledger
	builder     *TxBuilder
	router      common.Address
	waitTimeout time.Duration
	settleDelay time.Duration
	logger      *zap.Logger
}

func NewApprovalService(tokens TokenReader, ledger Ledger, builder *TxBuilder, router common.Address, waitTimeout time.Duration, logger *zap.Logger) *ApprovalService {
	if waitTimeout <= 0 {
		waitTimeout = DefaultApprovalWait
	}
	return &ApprovalService{
		tokens:      tokens,
		ledger:      ledger,
		builder:     builder,
		router:      router,
		waitTimeout: waitTimeout,
		settleDelay: approvalSettleDelay,
		logger:      logger,
	}
}

// IsApproved reports whether owner's allowance to the router on token is at
// or above the approved threshold. The native sentinel never needs approval.
func (s *ApprovalService) IsApproved(ctx context.Context, owner, token common.Address) (bool, error) {
	if entities.IsNative(token) {
		return true, nil
	}
	allowance, err := s.tokens.Allowance(ctx, token, owner, s.router)
	if err != nil {
		return false, err
	}
	return allowance.Cmp(ApprovedThreshold) >= 0, nil
}

// Approve grants the router an allowance of amount (MaxApproval when nil) on
// token and blocks until the transaction is mined or the wait times out.
func (s *ApprovalService) Approve(ctx context.Context, owner common.Address, key *ecdsa.PrivateKey, token common.Address, amount, gasPrice *big.Int) (common.Hash, error) {
	if amount == nil {
		amount = MaxApproval
	}

	data, err := s.tokens.PackApprove(s.router, amount)
	if err != nil {
		return common.Hash{}, &entities.ApprovalFailedError{Token: token, Cause: err}
	}

	s.logger.Info("approving token",
		zap.String("token", token.Hex()),
		zap.String("owner", owner.Hex()))

	hash, err := s.builder.Send(ctx, CallParams{
		From:     owner,
		To:       token,
		Value:    big.NewInt(0),
		GasPrice: gasPrice,
		Data:     data,
		Key:      key,
	})
	if err != nil {
		return hash, &entities.ApprovalFailedError{Token: token, Cause: err}
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	receipt, err := s.ledger.WaitMined(waitCtx, hash)
	if err != nil {
		return hash, &entities.ApprovalFailedError{Token: token, Cause: err}
	}
	if receipt.Status != 1 {
		return hash, &entities.ApprovalFailedError{Token: token, Cause: entities.ErrApprovalFailed}
	}

	time.Sleep(s.settleDelay)
	return hash, nil
}

// EnsureApproved is the guard applied before any trade-initiating operation:
// every non-native token passed in is approved if it is not already. Each
// unapproved token costs exactly one approval transaction.
func (s *ApprovalService) EnsureApproved(ctx context.Context, owner common.Address, key *ecdsa.PrivateKey, gasPrice *big.Int, tokens ...common.Address) error {
	seen := make(map[common.Address]bool, len(tokens))
	for _, token := range tokens {
		if entities.IsNative(token) || seen[token] {
			continue
		}
		seen[token] = true

		approved, err := s.IsApproved(ctx, owner, token)
		if err != nil {
			return &entities.ApprovalFailedError{Token: token, Cause: err}
		}
		if approved {
			continue
		}
		if _, err := s.Approve(ctx, owner, key, token, nil, gasPrice); err != nil {
			return err
		}
	}
	return nil
}
