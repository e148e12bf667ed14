package entities

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for errors.Is checks. The typed errors below unwrap to
// these so callers can branch on kind without losing the details.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrApprovalFailed   = errors.New("approval failed")
	ErrSwapReverted     = errors.New("swap reverted")
)

// InvalidAddressError reports address text or bytes that could not be
// canonicalized.
type InvalidAddressError struct {
	Input string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address: %q", e.Input)
}

func (e *InvalidAddressError) Unwrap() error { return ErrInvalidAddress }

// InsufficientBalanceError is returned when a pre-flight balance check fails.
// No network mutation has happened when this is returned.
type InsufficientBalanceError struct {
	Had    *big.Int
	Needed *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: had %s, needed %s", e.Had, e.Needed)
}

// QuoteUnavailableError is returned when the router's getAmountsOut call
// reverts, typically because no liquidity pool exists along the path.
type QuoteUnavailableError struct {
	Path     []common.Address
	AmountIn *big.Int
	Cause    error
}

func (e *QuoteUnavailableError) Error() string {
	return fmt.Sprintf("quote unavailable for path %v amountIn %s: %v", e.Path, e.AmountIn, e.Cause)
}

func (e *QuoteUnavailableError) Unwrap() error { return ErrQuoteUnavailable }

// ApprovalFailedError is returned when an approval transaction reverts or
// its receipt wait times out.
type ApprovalFailedError struct {
	Token common.Address
	Cause error
}

func (e *ApprovalFailedError) Error() string {
	return fmt.Sprintf("approval of %s failed: %v", e.Token.Hex(), e.Cause)
}

func (e *ApprovalFailedError) Unwrap() error { return ErrApprovalFailed }

// SwapRevertedError is returned when a swap transaction fails to submit or
// is mined but reverted.
type SwapRevertedError struct {
	Hash  common.Hash
	Cause error
}

func (e *SwapRevertedError) Error() string {
	return fmt.Sprintf("swap %s reverted: %v", e.Hash.Hex(), e.Cause)
}

func (e *SwapRevertedError) Unwrap() error { return ErrSwapReverted }
