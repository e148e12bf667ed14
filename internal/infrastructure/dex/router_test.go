package dex

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/pancake-trader/internal/infrastructure/contracts"
)

// stubCaller returns a canned response and records the call it served.
type stubCaller struct {
	response []byte
	err      error
	lastMsg  ethereum.CallMsg
	calls    int
}

func (s *stubCaller) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	s.lastMsg = msg
	s.calls++
	return s.response, s.err
}

func packAmounts(t *testing.T, amounts ...int64) []byte {
	t.Helper()
	values := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		values[i] = big.NewInt(a)
	}
	out, err := contracts.RouterABI().Methods["getAmountsOut"].Outputs.Pack(values)
	if err != nil {
		t.Fatalf("pack amounts: %v", err)
	}
	return out
}

func TestAmountsOutReturnsFinalHop(t *testing.T) {
	caller := &stubCaller{response: packAmounts(t, 1000, 950, 873)}
	router := NewRouterClient(caller, RouterAddressV2)

	path := []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000aaa"),
		common.HexToAddress("0x0000000000000000000000000000000000000bbb"),
		common.HexToAddress("0x0000000000000000000000000000000000000ccc"),
	}
	got, err := router.AmountsOut(context.Background(), big.NewInt(1000), path)
	if err != nil {
		t.Fatalf("AmountsOut failed: %v", err)
	}
	if got.Int64() != 873 {
		t.Errorf("AmountsOut = %s, want 873", got)
	}

	if *caller.lastMsg.To != RouterAddressV2 {
		t.Errorf("call went to %s, want the router", caller.lastMsg.To.Hex())
	}
	wantSelector := contracts.RouterABI().Methods["getAmountsOut"].ID
	if !bytes.Equal(caller.lastMsg.Data[:4], wantSelector) {
		t.Error("calldata does not start with the getAmountsOut selector")
	}
}

func TestAmountsOutRejectsShortPath(t *testing.T) {
	caller := &stubCaller{}
	router := NewRouterClient(caller, RouterAddressV2)

	_, err := router.AmountsOut(context.Background(), big.NewInt(1),
		[]common.Address{common.HexToAddress("0x0000000000000000000000000000000000000aaa")})
	if err == nil {
		t.Fatal("expected an error for a single-hop path")
	}
	if caller.calls != 0 {
		t.Error("a rejected path must not reach the node")
	}
}

func TestAmountsOutPropagatesCallError(t *testing.T) {
	wantErr := errors.New("execution reverted")
	router := NewRouterClient(&stubCaller{err: wantErr}, RouterAddressV2)

	path := []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000aaa"),
		common.HexToAddress("0x0000000000000000000000000000000000000bbb"),
	}
	if _, err := router.AmountsOut(context.Background(), big.NewInt(1), path); !errors.Is(err, wantErr) {
		t.Errorf("AmountsOut error = %v, want wrapped %v", err, wantErr)
	}
}

func TestPackSwapCalldata(t *testing.T) {
	router := NewRouterClient(&stubCaller{}, RouterAddressV2)

	path := []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000aaa"),
		common.HexToAddress("0x0000000000000000000000000000000000000bbb"),
	}
	recipient := common.HexToAddress("0x0000000000000000000000000000000000000123")
	deadline := big.NewInt(1700000000)

	data, err := router.Pack("swapExactETHForTokens", big.NewInt(900), path, recipient, deadline)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	wantSelector := contracts.RouterABI().Methods["swapExactETHForTokens"].ID
	if !bytes.Equal(data[:4], wantSelector) {
		t.Error("calldata does not start with the swapExactETHForTokens selector")
	}

	if _, err := router.Pack("swapExactETHForTokens", big.NewInt(900)); err == nil {
		t.Error("expected an error for a wrong argument count")
	}
	if _, err := router.Pack("noSuchMethod"); err == nil {
		t.Error("expected an error for an unknown method")
	}
}
