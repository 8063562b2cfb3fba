// Package handlers provides HTTP handlers for debt payoff planning.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/debts"
)

// DebtData provides the debt accounts payoff plans run against.
type DebtData interface {
	DebtAccountsByUser(userID string) ([]domain.DebtAccount, error)
	MortgagesByUser(userID string) ([]domain.Mortgage, error)
}

// Handler handles debt payoff HTTP requests
type Handler struct {
	debts      DebtData
	strategist *debts.Strategist
	log        zerolog.Logger
}

// NewHandler creates a new debts handler
func NewHandler(debtData DebtData, strategist *debts.Strategist, log zerolog.Logger) *Handler {
	return &Handler{
		debts:      debtData,
		strategist: strategist,
		log:        log.With().Str("handler", "debts").Logger(),
	}
}

// HandleSimulatePayoff handles
// GET /api/debts/{userID}/payoff?strategy=avalanche&extra=200&include_mortgages=true
func (h *Handler) HandleSimulatePayoff(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	strategy, err := parseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	extra, err := parseExtra(r.URL.Query().Get("extra"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	accounts, err := h.loadDebts(userID, r.URL.Query().Get("include_mortgages") == "true")
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load debts")
		h.writeError(w, http.StatusInternalServerError, "failed to load debts")
		return
	}

	simulation, err := h.strategist.Simulate(accounts, extra, strategy)
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to simulate payoff")
		h.writeError(w, http.StatusInternalServerError, "failed to simulate payoff")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": simulation,
		"metadata": map[string]interface{}{
			"user_id":   userID,
			"debts":     len(accounts),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleComparePayoff handles
// GET /api/debts/{userID}/payoff/compare?extra=200&include_mortgages=true
func (h *Handler) HandleComparePayoff(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	extra, err := parseExtra(r.URL.Query().Get("extra"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	accounts, err := h.loadDebts(userID, r.URL.Query().Get("include_mortgages") == "true")
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load debts")
		h.writeError(w, http.StatusInternalServerError, "failed to load debts")
		return
	}

	comparison, err := h.strategist.Compare(accounts, extra)
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compare payoff strategies")
		h.writeError(w, http.StatusInternalServerError, "failed to compare payoff strategies")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": comparison,
		"metadata": map[string]interface{}{
			"user_id":   userID,
			"debts":     len(accounts),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// loadDebts merges a user's debts with (opt-in) mortgages. Mortgages
// are excluded by default, their size drowns out everything else in
// the plan.
func (h *Handler) loadDebts(userID string, includeMortgages bool) ([]domain.DebtAccount, error) {
	loans, err := h.debts.DebtAccountsByUser(userID)
	if err != nil {
		return nil, err
	}

	if includeMortgages {
		mortgages, err := h.debts.MortgagesByUser(userID)
		if err != nil {
			return nil, err
		}
		for _, mortgage := range mortgages {
			loans = append(loans, mortgage.AsDebtAccount())
		}
	}

	return loans, nil
}

func parseStrategy(raw string) (debts.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(debts.StrategyAvalanche):
		return debts.StrategyAvalanche, nil
	case string(debts.StrategySnowball):
		return debts.StrategySnowball, nil
	default:
		return "", domain.NewValidationError("strategy", "must be avalanche or snowball")
	}
}

func parseExtra(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	extra, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError("extra", "must be a decimal amount")
	}
	return extra, nil
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
