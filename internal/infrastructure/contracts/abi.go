package contracts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI of the PancakeSwap V2 router (router02), limited to the
// methods the client calls.
const routerABIJSON = `[
	{"name":"getAmountsOut","type":"function","stateMutability":"view",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"name":"swapExactETHForTokens","type":"function","stateMutability":"payable",
	 "inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"name":"swapExactTokensForETHSupportingFeeOnTransferTokens","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[]},
	{"name":"swapExactTokensForTokens","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]}
]`

// Standard ERC20 interface (EIP-20), reads plus approve.
const erc20ABIJSON = `[
	{"name":"symbol","type":"function","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"decimals","type":"function","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"name":"balanceOf","type":"function","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"allowance","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

var (
	parseOnce sync.Once
	parsed    map[string]*abi.ABI
	parseErr  error
)

func parseAll() {
	sources := map[string]string{
		"router02": routerABIJSON,
		"erc20":    erc20ABIJSON,
	}
	parsed = make(map[string]*abi.ABI, len(sources))
	for name, src := range sources {
		a, err := abi.JSON(strings.NewReader(src))
		if err != nil {
			parseErr = fmt.Errorf("parse %s abi: %w", name, err)
			return
		}
		parsed[name] = &a
	}
}

// Load returns the parsed ABI registered under name ("router02" or "erc20").
func Load(name string) (*abi.ABI, error) {
	parseOnce.Do(parseAll)
	if parseErr != nil {
		return nil, parseErr
	}
	a, ok := parsed[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract interface %q", name)
	}
	return a, nil
}

// RouterABI returns the router02 ABI. The embedded JSON is static, so the
// error path only exists for Load callers with dynamic names.
func RouterABI() *abi.ABI {
	a, _ := Load("router02")
	return a
}

// ERC20ABI returns the ERC20 ABI.
func ERC20ABI() *abi.ABI {
	a, _ := Load("erc20")
	return a
}
