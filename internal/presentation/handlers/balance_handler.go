package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
	"github.com/bimakw/pancake-trader/internal/domain/services"
)

type BalanceHandler struct {
	balanceService *services.BalanceService
}

func NewBalanceHandler(balanceService *services.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

type BalanceResponse struct {
	Account  string `json:"account"`
	Token    string `json:"token"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Balance  string `json:"balance"`
}

// GetBalance handles GET /api/v1/balance/{address}. Without a token query
// parameter it reports the native BNB balance.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := entities.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	}

	token := entities.NativeToken
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		token, err = entities.ParseAddress(tokenStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_token", err.Error())
			return
		}
	}

	balance, err := h.balanceService.TokenBalance(r.Context(), account, token)
	if err != nil {
		writeError(w, http.StatusBadGateway, "balance_read_failed", err.Error())
		return
	}

	symbol, decimals, err := h.balanceService.TokenInfo(r.Context(), token)
	if err != nil {
		// Metadata is best-effort; non-standard tokens still get a balance.
		symbol, decimals = "UNKNOWN", 18
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		Account:  entities.FormatAddress(account),
		Token:    entities.FormatAddress(token),
		Symbol:   symbol,
		Decimals: decimals,
		Balance:  balance.String(),
	})
}
