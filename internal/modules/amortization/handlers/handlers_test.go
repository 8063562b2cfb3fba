package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestcott/finsight/internal/modules/amortization"
)

func setupRouter() *chi.Mux {
	log := zerolog.Nop()
	handler := NewHandler(amortization.NewEngine(log), log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func TestHandleAmortizationSchedule(t *testing.T) {
	router := setupRouter()

	body := `{"principal": 300000, "annual_rate": 0.06, "term_months": 360, "start_date": "2025-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/loans/amortization", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data struct {
			MonthlyPayment string `json:"monthly_payment"`
			Periods        []struct {
				Number           int    `json:"number"`
				RemainingBalance string `json:"remaining_balance"`
			} `json:"periods"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "1798.65", response.Data.MonthlyPayment)
	require.Len(t, response.Data.Periods, 360)
	assert.Equal(t, "0", response.Data.Periods[359].RemainingBalance)
}

func TestHandleAmortizationScheduleRejectsBadLoan(t *testing.T) {
	router := setupRouter()

	body := `{"principal": -5, "annual_rate": 0.06, "term_months": 360}`
	req := httptest.NewRequest(http.MethodPost, "/api/loans/amortization", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAmortizationScheduleRejectsBadBody(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/loans/amortization", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePayoffSimulation(t *testing.T) {
	router := setupRouter()

	body := `{"principal": 300000, "annual_rate": 0.06, "term_months": 360, "extra_payment": 200}`
	req := httptest.NewRequest(http.MethodPost, "/api/loans/payoff", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data struct {
			Months      int `json:"months"`
			MonthsSaved int `json:"months_saved"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Less(t, response.Data.Months, 360)
	assert.Equal(t, 360-response.Data.Months, response.Data.MonthsSaved)
}

func TestHandlePayoffSimulationRejectsNegativeExtra(t *testing.T) {
	router := setupRouter()

	body := `{"principal": 10000, "annual_rate": 0.05, "term_months": 60, "extra_payment": -50}`
	req := httptest.NewRequest(http.MethodPost, "/api/loans/payoff", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
