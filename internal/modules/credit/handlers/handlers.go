// Package handlers provides HTTP handlers for credit utilization.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/credit"
)

// CardSource provides the credit cards on file for a user.
type CardSource interface {
	CreditCardsByUser(userID string) ([]domain.CreditCard, error)
}

// Handler handles credit HTTP requests
type Handler struct {
	cards      CardSource
	calculator *credit.Calculator
	log        zerolog.Logger
}

// NewHandler creates a new credit handler
func NewHandler(cards CardSource, calculator *credit.Calculator, log zerolog.Logger) *Handler {
	return &Handler{
		cards:      cards,
		calculator: calculator,
		log:        log.With().Str("handler", "credit").Logger(),
	}
}

// HandleGetUtilization handles GET /api/credit/{userID}/utilization
func (h *Handler) HandleGetUtilization(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	cards, err := h.cards.CreditCardsByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load credit cards")
		h.writeError(w, http.StatusInternalServerError, "failed to load credit cards")
		return
	}

	report := h.calculator.Assess(cards)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"user_id":   userID,
			"timestamp": time.Now().Format(time.RFC3339),
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
