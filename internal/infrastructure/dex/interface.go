package dex

import (
	"context"

	"github.com/ethereum/go-ethereum"
)

// ContractCaller is the slice of the RPC client the contract clients need
// for read-only calls. Implemented by infrastructure/ethereum.Client.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}
