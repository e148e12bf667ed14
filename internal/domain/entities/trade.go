package entities

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidQuantity rejects zero, negative or missing trade amounts.
	ErrInvalidQuantity = errors.New("trade quantity must be a positive integer")
	// ErrAmountOverflow rejects amounts wider than the chain's 256-bit words.
	ErrAmountOverflow = errors.New("amount does not fit in a uint256")
	// ErrInvalidGasPrice rejects missing or non-positive gas prices.
	ErrInvalidGasPrice = errors.New("gas price must be a positive integer")
)

// ValidateAmount checks that v is a positive integer representable in a
// single uint256 calldata slot. ABI packing reduces wider values mod 2^256
// without complaint, so the bound has to be enforced before packing.
func ValidateAmount(v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return ErrInvalidQuantity
	}
	if v.BitLen() > 256 {
		return ErrAmountOverflow
	}
	return nil
}

// TradeMode classifies a trade by whether either side is the native currency.
type TradeMode string

const (
	NativeToToken TradeMode = "native_to_token"
	TokenToNative TradeMode = "token_to_native"
	TokenToToken  TradeMode = "token_to_token"
)

// ClassifyTrade determines the trade mode from the input/output tokens.
func ClassifyTrade(inputToken, outputToken common.Address) TradeMode {
	switch {
	case IsNative(inputToken):
		return NativeToToken
	case IsNative(outputToken):
		return TokenToNative
	default:
		return TokenToToken
	}
}

// TradeRequest describes a single exact-input swap. Quantity and GasPrice
// are denominated in the smallest unit (wei for BNB). Recipient defaults to
// Sender when left zero.
type TradeRequest struct {
	InputToken  common.Address
	OutputToken common.Address
	Quantity    *big.Int
	GasPrice    *big.Int
	Sender      common.Address
	Recipient   common.Address
	Key         *ecdsa.PrivateKey
}

// Normalize applies defaults and validates the request shape. It never
// touches the network.
func (r *TradeRequest) Normalize() error {
	if r.Sender == (common.Address{}) {
		return &InvalidAddressError{Input: "sender unset"}
	}
	if r.Recipient == (common.Address{}) {
		r.Recipient = r.Sender
	}
	if err := ValidateAmount(r.Quantity); err != nil {
		return err
	}
	if r.GasPrice == nil || r.GasPrice.Sign() <= 0 {
		return ErrInvalidGasPrice
	}
	return nil
}

// Mode returns the trade mode for this request.
func (r *TradeRequest) Mode() TradeMode {
	return ClassifyTrade(r.InputToken, r.OutputToken)
}

// ResolvePath builds the hop sequence through the V2 pools for a quote or
// swap between tokenIn and tokenOut. The native sentinel is anchored on the
// wrapped base token; a pair that already touches the wrapped base token
// degenerates to a direct 2-hop path, everything else routes through it.
func ResolvePath(tokenIn, tokenOut, wrappedBase common.Address) []common.Address {
	if IsNative(tokenIn) {
		return []common.Address{wrappedBase, tokenOut}
	}
	if IsNative(tokenOut) {
		return []common.Address{tokenIn, wrappedBase}
	}
	if tokenIn == wrappedBase || tokenOut == wrappedBase {
		return []common.Address{tokenIn, tokenOut}
	}
	return []common.Address{tokenIn, wrappedBase, tokenOut}
}

// SwapQuote is the result of quoting an exact-input trade.
type SwapQuote struct {
	Path         []common.Address `json:"path"`
	AmountIn     *big.Int         `json:"amountIn"`
	AmountOut    *big.Int         `json:"amountOut"`
	MinAmountOut *big.Int         `json:"minAmountOut"`
}
