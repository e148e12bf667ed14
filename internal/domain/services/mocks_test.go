package services

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
)

// mockLedger stands in for the RPC client. It records every broadcast
// transaction and mines them instantly with a configurable receipt status.
type mockLedger struct {
	mu            sync.Mutex
	balances      map[common.Address]*big.Int
	nonce         uint64
	sent          []*types.Transaction
	sendErr       error
	receiptStatus uint64
	waitErr       error
	chainID       *big.Int
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		balances:      make(map[common.Address]*big.Int),
		receiptStatus: 1,
		chainID:       big.NewInt(56),
	}
}

func (l *mockLedger) BalanceAt(_ context.Context, account common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (l *mockLedger) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nonce, nil
}

func (l *mockLedger) SendTransaction(_ context.Context, tx *types.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sendErr != nil {
		return l.sendErr
	}
	l.sent = append(l.sent, tx)
	return nil
}

func (l *mockLedger) WaitMined(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if l.waitErr != nil {
		return nil, l.waitErr
	}
	return &types.Receipt{Status: l.receiptStatus, TxHash: hash}, nil
}

func (l *mockLedger) ChainID() *big.Int { return l.chainID }

func (l *mockLedger) sentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sent)
}

// mockRouter quotes a fixed output and records the calldata it packs.
type mockRouter struct {
	addr       common.Address
	amountOut  *big.Int
	quoteErr   error
	quoteCalls int
	lastPath   []common.Address
	packed     []string
}

func (r *mockRouter) AmountsOut(_ context.Context, _ *big.Int, path []common.Address) (*big.Int, error) {
	r.lastPath = path
	r.quoteCalls++
	if r.quoteErr != nil {
		return nil, r.quoteErr
	}
	return new(big.Int).Set(r.amountOut), nil
}

func (r *mockRouter) Pack(method string, _ ...interface{}) ([]byte, error) {
	r.packed = append(r.packed, method)
	return []byte(method), nil
}

func (r *mockRouter) Address() common.Address { return r.addr }

// mockTokens serves ERC20 state keyed by token address. Tests exercise a
// single owner, so balances and allowances ignore the owner argument.
type mockTokens struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]*big.Int
}

func newMockTokens() *mockTokens {
	return &mockTokens{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]*big.Int),
	}
}

func (m *mockTokens) BalanceOf(_ context.Context, token, _ common.Address) (*big.Int, error) {
	if b, ok := m.balances[token]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (m *mockTokens) Allowance(_ context.Context, token, _, _ common.Address) (*big.Int, error) {
	if a, ok := m.allowances[token]; ok {
		return new(big.Int).Set(a), nil
	}
	return big.NewInt(0), nil
}

func (m *mockTokens) Symbol(_ context.Context, _ common.Address) (string, error) { return "TKN", nil }

func (m *mockTokens) Decimals(_ context.Context, _ common.Address) (uint8, error) { return 18, nil }

func (m *mockTokens) PackApprove(_ common.Address, _ *big.Int) ([]byte, error) {
	return []byte("approve"), nil
}

// rig wires the full service stack over the mocks, matching the production
// constructor order in cmd/api.
type rig struct {
	ledger    *mockLedger
	router    *mockRouter
	tokens    *mockTokens
	approvals *ApprovalService
	trades    *TradeService
	key       *ecdsa.PrivateKey
	sender    common.Address
}

var testRouterAddr = common.HexToAddress("0x10ED43C718714eb63d5aA57B78B54704E256024E")

func newRig(t *testing.T) *rig {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	ledger := newMockLedger()
	router := &mockRouter{addr: testRouterAddr, amountOut: big.NewInt(1000)}
	tokens := newMockTokens()
	logger := zap.NewNop()

	nonces := NewNonceTracker(ledger)
	builder := NewTxBuilder(ledger, nonces, 0, logger)
	approvals := NewApprovalService(tokens, ledger, builder, router.addr, 5*time.Second, logger)
	approvals.settleDelay = 0
	prices := NewPriceService(router, nil, entities.WBNB.Address, 0.1, logger)
	balances := NewBalanceService(ledger, tokens)
	trades := NewTradeService(prices, balances, approvals, builder, router, 0, logger)

	return &rig{
		ledger:    ledger,
		router:    router,
		tokens:    tokens,
		approvals: approvals,
		trades:    trades,
		key:       key,
		sender:    crypto.PubkeyToAddress(key.PublicKey),
	}
}
