package entities

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeToken is the sentinel address for the chain's native currency (BNB).
// It is the all-zero address and never corresponds to an ERC20 contract.
var NativeToken = common.Address{}

// ParseAddress converts a checksummed "0x"-prefixed hex string into an
// address. Checksum casing is not enforced; malformed input returns
// InvalidAddressError.
func ParseAddress(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return common.Address{}, &InvalidAddressError{Input: s}
	}
	return common.HexToAddress(s), nil
}

// AddressFromBytes converts a raw 20-byte slice into an address.
func AddressFromBytes(b []byte) (common.Address, error) {
	if len(b) != common.AddressLength {
		return common.Address{}, &InvalidAddressError{Input: common.Bytes2Hex(b)}
	}
	return common.BytesToAddress(b), nil
}

// FormatAddress returns the checksum-cased hex representation.
func FormatAddress(a common.Address) string {
	return a.Hex()
}

// SameAddress reports whether two textual addresses refer to the same
// account, ignoring checksum casing. Invalid input never matches.
func SameAddress(a, b string) bool {
	addrA, err := ParseAddress(a)
	if err != nil {
		return false
	}
	addrB, err := ParseAddress(b)
	if err != nil {
		return false
	}
	return addrA == addrB
}

// IsNative reports whether addr is the native-currency sentinel.
func IsNative(addr common.Address) bool {
	return addr == NativeToken
}
