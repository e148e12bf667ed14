package handlers

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
	"github.com/bimakw/pancake-trader/internal/domain/services"
)

// SwapHandler executes trades and approvals with the server's configured
// wallet. Keys never travel over the wire.
type SwapHandler struct {
	tradeService    *services.TradeService
	approvalService *services.ApprovalService
	key             *ecdsa.PrivateKey
	sender          common.Address
	defaultGasPrice *big.Int
}

func NewSwapHandler(tradeService *services.TradeService, approvalService *services.ApprovalService, key *ecdsa.PrivateKey, sender common.Address, defaultGasPrice *big.Int) *SwapHandler {
	return &SwapHandler{
		tradeService:    tradeService,
		approvalService: approvalService,
		key:             key,
		sender:          sender,
		defaultGasPrice: defaultGasPrice,
	}
}

type SwapRequest struct {
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	GasPriceWei string `json:"gasPriceWei,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
}

type SwapResponse struct {
	TxHash string `json:"txHash"`
	Mode   string `json:"mode"`
}

// Swap handles POST /api/v1/swap
func (h *SwapHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var body SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	tokenIn, err := entities.ParseAddress(body.TokenIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_in", err.Error())
		return
	}
	tokenOut, err := entities.ParseAddress(body.TokenOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_out", err.Error())
		return
	}

	amountIn, ok := new(big.Int).SetString(body.AmountIn, 10)
	if !ok || amountIn.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amountIn must be a positive integer")
		return
	}

	gasPrice := h.defaultGasPrice
	if body.GasPriceWei != "" {
		gasPrice, ok = new(big.Int).SetString(body.GasPriceWei, 10)
		if !ok || gasPrice.Sign() <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_gas_price", "gasPriceWei must be a positive integer")
			return
		}
	}

	recipient := common.Address{}
	if body.Recipient != "" {
		recipient, err = entities.ParseAddress(body.Recipient)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_recipient", err.Error())
			return
		}
	}

	req := &entities.TradeRequest{
		InputToken:  tokenIn,
		OutputToken: tokenOut,
		Quantity:    amountIn,
		GasPrice:    gasPrice,
		Sender:      h.sender,
		Recipient:   recipient,
		Key:         h.key,
	}

	hash, err := h.tradeService.ExecuteTrade(r.Context(), req)
	if err != nil {
		writeTradeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SwapResponse{
		TxHash: hash.Hex(),
		Mode:   string(req.Mode()),
	})
}

type ApproveRequest struct {
	Token       string `json:"token"`
	GasPriceWei string `json:"gasPriceWei,omitempty"`
}

type ApproveResponse struct {
	TxHash  string `json:"txHash"`
	Token   string `json:"token"`
	Already bool   `json:"alreadyApproved"`
}

// Approve handles POST /api/v1/approve
func (h *SwapHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var body ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	token, err := entities.ParseAddress(body.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token", err.Error())
		return
	}
	if entities.IsNative(token) {
		writeError(w, http.StatusBadRequest, "native_token", "the native currency never requires approval")
		return
	}

	gasPrice := h.defaultGasPrice
	if body.GasPriceWei != "" {
		var ok bool
		gasPrice, ok = new(big.Int).SetString(body.GasPriceWei, 10)
		if !ok || gasPrice.Sign() <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_gas_price", "gasPriceWei must be a positive integer")
			return
		}
	}

	approved, err := h.approvalService.IsApproved(r.Context(), h.sender, token)
	if err != nil {
		writeError(w, http.StatusBadGateway, "allowance_read_failed", err.Error())
		return
	}
	if approved {
		writeJSON(w, http.StatusOK, ApproveResponse{Token: token.Hex(), Already: true})
		return
	}

	hash, err := h.approvalService.Approve(r.Context(), h.sender, h.key, token, nil, gasPrice)
	if err != nil {
		writeTradeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ApproveResponse{
		TxHash: hash.Hex(),
		Token:  token.Hex(),
	})
}

// writeTradeError maps the trade error taxonomy onto HTTP statuses.
func writeTradeError(w http.ResponseWriter, err error) {
	var insufficient *entities.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, entities.ErrInvalidAddress), errors.Is(err, entities.ErrInvalidQuantity),
		errors.Is(err, entities.ErrAmountOverflow), errors.Is(err, entities.ErrInvalidGasPrice):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, entities.ErrQuoteUnavailable):
		writeError(w, http.StatusNotFound, "no_liquidity", err.Error())
	case errors.Is(err, entities.ErrApprovalFailed):
		writeError(w, http.StatusBadGateway, "approval_failed", err.Error())
	case errors.Is(err, entities.ErrSwapReverted):
		writeError(w, http.StatusBadGateway, "swap_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "trade_failed", err.Error())
	}
}
