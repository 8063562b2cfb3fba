package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all net-worth routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/networth", func(r chi.Router) {
		r.Get("/{userID}", h.HandleGetNetWorth)
		r.Get("/{userID}/history", h.HandleGetHistory)
		r.Post("/{userID}/refresh", h.HandleRefreshNetWorth)
	})
}
