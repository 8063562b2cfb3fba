// Package handlers provides HTTP handlers for performance reporting.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/benchmarks"
	"github.com/mwestcott/finsight/internal/modules/performance"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/internal/periods"
)

// AccountData provides the account snapshots performance reports need.
type AccountData interface {
	HoldingsByAccount(accountID string) ([]domain.Holding, error)
	TransactionsInRange(accountID string, start, end time.Time) ([]domain.Transaction, error)
	Histories(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error)
}

// BenchmarkData provides benchmark close series.
type BenchmarkData interface {
	AllSeries(start, end time.Time) (map[string][]domain.PricePoint, error)
}

// Handler handles performance HTTP requests
type Handler struct {
	accounts   AccountData
	benchmarks BenchmarkData
	builder    *timeseries.Builder
	calculator *performance.Calculator
	comparator *benchmarks.Comparator
	log        zerolog.Logger
}

// NewHandler creates a new performance handler
func NewHandler(
	accounts AccountData,
	benchmarkData BenchmarkData,
	builder *timeseries.Builder,
	calculator *performance.Calculator,
	comparator *benchmarks.Comparator,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		accounts:   accounts,
		benchmarks: benchmarkData,
		builder:    builder,
		calculator: calculator,
		comparator: comparator,
		log:        log.With().Str("handler", "performance").Logger(),
	}
}

// HandleGetPerformance handles GET /api/performance/{accountID}?period=1Y
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	period := r.URL.Query().Get("period")
	if period == "" {
		period = periods.Default
	}
	start, end, err := periods.Resolve(period, time.Now())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	holdings, err := h.accounts.HoldingsByAccount(accountID)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to load holdings")
		return
	}

	transactions, err := h.accounts.TransactionsInRange(accountID, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.Symbol)
	}
	prices, err := h.accounts.Histories(symbols, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to load price history")
		h.writeError(w, http.StatusInternalServerError, "failed to load price history")
		return
	}

	series, err := h.builder.Build(timeseries.Input{
		AccountID:    accountID,
		Start:        start,
		End:          end,
		Transactions: transactions,
		Holdings:     holdings,
		Prices:       prices,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to build valuation series")
		h.writeError(w, http.StatusInternalServerError, "failed to build valuation series")
		return
	}

	benchSeries, err := h.benchmarks.AllSeries(start, end)
	if err != nil {
		// Benchmark comparisons are additive; the report still ships
		// without them.
		h.log.Warn().Err(err).Msg("Failed to load benchmark series")
		benchSeries = nil
	}
	benches := h.comparator.CompareAll(benchSeries)

	result := h.calculator.Calculate(series, holdings, benches)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"account_id": accountID,
			"period":     period,
			"start":      start.Format(time.RFC3339),
			"end":        end.Format(time.RFC3339),
			"timestamp":  time.Now().Format(time.RFC3339),
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
