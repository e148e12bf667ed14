package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/bimakw/pancake-trader/internal/domain/entities"
	"github.com/bimakw/pancake-trader/internal/domain/services"
)

// QuoteHandler handles quote requests
type QuoteHandler struct {
	priceService *services.PriceService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(priceService *services.PriceService) *QuoteHandler {
	return &QuoteHandler{priceService: priceService}
}

// QuoteResponse represents a quote response
type QuoteResponse struct {
	TokenIn      string   `json:"tokenIn"`
	TokenOut     string   `json:"tokenOut"`
	AmountIn     string   `json:"amountIn"`
	AmountOut    string   `json:"amountOut"`
	MinAmountOut string   `json:"minAmountOut"`
	Path         []string `json:"path"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetQuote handles GET /api/v1/quote
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	tokenInStr := r.URL.Query().Get("tokenIn")
	tokenOutStr := r.URL.Query().Get("tokenOut")
	amountInStr := r.URL.Query().Get("amountIn")

	if tokenInStr == "" || tokenOutStr == "" || amountInStr == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "tokenIn, tokenOut, and amountIn are required")
		return
	}

	// The zero address stands for native BNB on either side.
	tokenIn, err := entities.ParseAddress(tokenInStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_in", err.Error())
		return
	}
	tokenOut, err := entities.ParseAddress(tokenOutStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_out", err.Error())
		return
	}

	amountIn, ok := new(big.Int).SetString(amountInStr, 10)
	if !ok || amountIn.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amountIn must be a positive integer")
		return
	}

	quote, err := h.priceService.Quote(r.Context(), tokenIn, tokenOut, amountIn)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrAmountOverflow), errors.Is(err, entities.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
		case errors.Is(err, entities.ErrQuoteUnavailable):
			writeError(w, http.StatusNotFound, "no_liquidity", err.Error())
		default:
			writeError(w, http.StatusBadGateway, "quote_failed", err.Error())
		}
		return
	}

	path := make([]string, len(quote.Path))
	for i, hop := range quote.Path {
		path[i] = hop.Hex()
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		TokenIn:      entities.FormatAddress(tokenIn),
		TokenOut:     entities.FormatAddress(tokenOut),
		AmountIn:     quote.AmountIn.String(),
		AmountOut:    quote.AmountOut.String(),
		MinAmountOut: quote.MinAmountOut.String(),
		Path:         path,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
