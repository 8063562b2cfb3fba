// Package handlers provides HTTP handlers for loan amortization.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/amortization"
)

const dateLayout = "2006-01-02"

// loanRequest is the wire form of a loan. Decimal fields accept JSON
// numbers or strings.
type loanRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	AnnualRate   decimal.Decimal `json:"annual_rate"`
	TermMonths   int             `json:"term_months"`
	StartDate    string          `json:"start_date,omitempty"`
	ExtraPayment decimal.Decimal `json:"extra_payment,omitempty"`
}

// Handler handles amortization HTTP requests
type Handler struct {
	engine *amortization.Engine
	log    zerolog.Logger
}

// NewHandler creates a new amortization handler
func NewHandler(engine *amortization.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "amortization").Logger(),
	}
}

// HandleAmortizationSchedule handles POST /api/loans/amortization
func (h *Handler) HandleAmortizationSchedule(w http.ResponseWriter, r *http.Request) {
	loan, _, ok := h.parseLoan(w, r)
	if !ok {
		return
	}

	schedule, err := h.engine.GenerateSchedule(loan)
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to generate amortization schedule")
		h.writeError(w, http.StatusInternalServerError, "failed to generate schedule")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": schedule,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandlePayoffSimulation handles POST /api/loans/payoff
func (h *Handler) HandlePayoffSimulation(w http.ResponseWriter, r *http.Request) {
	loan, extra, ok := h.parseLoan(w, r)
	if !ok {
		return
	}

	result, err := h.engine.SimulatePayoff(loan, extra)
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to simulate loan payoff")
		h.writeError(w, http.StatusInternalServerError, "failed to simulate payoff")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// parseLoan decodes and validates the request body. Writes the error
// response itself when parsing fails.
func (h *Handler) parseLoan(w http.ResponseWriter, r *http.Request) (domain.Loan, decimal.Decimal, bool) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return domain.Loan{}, decimal.Zero, false
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "start_date must be formatted as YYYY-MM-DD")
			return domain.Loan{}, decimal.Zero, false
		}
		startDate = parsed
	}

	loan := domain.Loan{
		Principal:  req.Principal,
		AnnualRate: req.AnnualRate,
		TermMonths: req.TermMonths,
		StartDate:  startDate,
	}
	return loan, req.ExtraPayment, true
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
