// Package handlers provides HTTP handlers for risk metrics.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/risk"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/internal/periods"
)

// defaultBenchmark is the symbol beta is computed against when the
// request does not name one.
const defaultBenchmark = "SPY"

// AccountData provides the account data risk analysis needs.
type AccountData interface {
	HoldingsByAccount(accountID string) ([]domain.Holding, error)
	TransactionsInRange(accountID string, start, end time.Time) ([]domain.Transaction, error)
	Histories(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error)
}

// BenchmarkData provides a single benchmark close series.
type BenchmarkData interface {
	DailyCloses(symbol string, start, end time.Time) ([]domain.PricePoint, error)
}

// Handler handles risk HTTP requests
type Handler struct {
	accounts   AccountData
	benchmarks BenchmarkData
	builder    *timeseries.Builder
	analyzer   *risk.Analyzer
	log        zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(
	accounts AccountData,
	benchmarkData BenchmarkData,
	builder *timeseries.Builder,
	analyzer *risk.Analyzer,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		accounts:   accounts,
		benchmarks: benchmarkData,
		builder:    builder,
		analyzer:   analyzer,
		log:        log.With().Str("handler", "risk").Logger(),
	}
}

// HandleGetRisk handles GET /api/risk/{accountID}?period=1Y&benchmark=SPY
func (h *Handler) HandleGetRisk(w http.ResponseWriter, r *http.Request) {
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

	benchmark := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("benchmark")))
	if benchmark == "" {
		benchmark = defaultBenchmark
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

	benchCloses, err := h.benchmarks.DailyCloses(benchmark, start, end)
	if err != nil {
		// Beta degrades to null without a benchmark, everything else
		// still computes.
		h.log.Warn().Err(err).Str("benchmark", benchmark).Msg("Failed to load benchmark closes")
		benchCloses = nil
	}

	metrics := h.analyzer.Analyze(series, benchCloses)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": metrics,
		"metadata": map[string]interface{}{
			"account_id": accountID,
			"period":     period,
			"benchmark":  benchmark,
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
