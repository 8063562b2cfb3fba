// Package handlers provides HTTP handlers for tax lot insights.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/taxlots"
)

// AccountData provides the transactions and prices lot replay needs.
type AccountData interface {
	HoldingsByAccount(accountID string) ([]domain.Holding, error)
	TransactionsByAccount(accountID string) ([]domain.Transaction, error)
	CurrentPrices(holdings []domain.Holding) (map[string]decimal.Decimal, error)
}

// Handler handles tax lot HTTP requests
type Handler struct {
	accounts AccountData
	engine   *taxlots.Engine
	log      zerolog.Logger
}

// NewHandler creates a new tax lot handler
func NewHandler(accounts AccountData, engine *taxlots.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		engine:   engine,
		log:      log.With().Str("handler", "taxlots").Logger(),
	}
}

// HandleGetTaxLots handles GET /api/taxlots/{accountID}
//
// Replays the full transaction history, so the report always reflects
// every recorded trade rather than a cached position.
func (h *Handler) HandleGetTaxLots(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	transactions, err := h.accounts.TransactionsByAccount(accountID)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	holdings, err := h.accounts.HoldingsByAccount(accountID)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to load holdings")
		return
	}

	prices, err := h.accounts.CurrentPrices(holdings)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load current prices")
		h.writeError(w, http.StatusInternalServerError, "failed to load current prices")
		return
	}

	insights, err := h.engine.Replay(transactions, prices, time.Now())
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to replay tax lots")
		h.writeError(w, http.StatusInternalServerError, "failed to replay tax lots")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": insights,
		"metadata": map[string]interface{}{
			"account_id":   accountID,
			"transactions": len(transactions),
			"timestamp":    time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{"error": message})
}
