package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all tax lot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/taxlots", func(r chi.Router) {
		r.Get("/{accountID}", h.HandleGetTaxLots)
	})
}
