package entities

import "github.com/ethereum/go-ethereum/common"

type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
}

// WBNB is the canonical Wrapped BNB token on BSC mainnet, used as the
// intermediate hop for swaps that do not touch it directly.
var WBNB = Token{
	Address:  common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"),
	Symbol:   "WBNB",
	Name:     "Wrapped BNB",
	Decimals: 18,
}

// BUSD is Binance USD on BSC mainnet
var BUSD = Token{
	Address:  common.HexToAddress("0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"),
	Symbol:   "BUSD",
	Name:     "Binance USD",
	Decimals: 18,
}

// USDT is Tether USD on BSC mainnet
var USDT = Token{
	Address:  common.HexToAddress("0x55d398326f99059fF775485246999027B3197955"),
	Symbol:   "USDT",
	Name:     "Tether USD",
	Decimals: 18,
}

// CAKE is PancakeSwap's own token on BSC mainnet
var CAKE = Token{
	Address:  common.HexToAddress("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"),
	Symbol:   "CAKE",
	Name:     "PancakeSwap Token",
	Decimals: 18,
}

var wellKnown = map[common.Address]Token{
	WBNB.Address: WBNB,
	BUSD.Address: BUSD,
	USDT.Address: USDT,
	CAKE.Address: CAKE,
}

// LookupToken returns the bundled metadata for addr if it is one of the
// well-known BSC mainnet tokens, saving a contract read.
func LookupToken(addr common.Address) (Token, bool) {
	t, ok := wellKnown[addr]
	return t, ok
}
