package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all debt payoff routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/debts", func(r chi.Router) {
		r.Get("/{userID}/payoff", h.HandleSimulatePayoff)
		r.Get("/{userID}/payoff/compare", h.HandleComparePayoff)
	})
}
