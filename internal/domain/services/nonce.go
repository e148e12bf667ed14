package services

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionCounter reports the ledger's transaction count for an account.
type TransactionCounter interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// NonceTracker hands out strictly increasing nonces per account within one
// client instance. The ledger's reported count lags behind rapid successive
// sends, so the effective nonce is the max of the cached next value and the
// ledger's count.
type NonceTracker struct {
	mu     sync.Mutex
	ledger TransactionCounter
	next   map[common.Address]uint64
}

func NewNonceTracker(ledger TransactionCounter) *NonceTracker {
	return &NonceTracker{
		ledger: ledger,
		next:   make(map[common.Address]uint64),
	}
}

// Next returns the nonce to use for the account's next transaction.
func (t *NonceTracker) Next(ctx context.Context, account common.Address) (uint64, error) {
	reported, err := t.ledger.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if cached := t.next[account]; cached > reported {
		return cached, nil
	}
	return reported, nil
}

// Advance records that used has been consumed. It must run exactly once per
// construction attempt, whether or not the ledger accepted the transaction:
// a failed send leaves a permanent gap rather than risking reuse.
func (t *NonceTracker) Advance(account common.Address, used uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next[account] = used + 1
}
