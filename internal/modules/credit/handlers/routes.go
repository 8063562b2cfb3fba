package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all credit routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/credit", func(r chi.Router) {
		r.Get("/{userID}/utilization", h.HandleGetUtilization)
	})
}
