package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all loan routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/loans", func(r chi.Router) {
		r.Post("/amortization", h.HandleAmortizationSchedule)
		r.Post("/payoff", h.HandlePayoffSimulation)
	})
}
