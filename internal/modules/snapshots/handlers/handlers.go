// Package handlers provides HTTP handlers for net-worth snapshots.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/modules/snapshots"
)

// Handler handles net-worth HTTP requests
type Handler struct {
	service *snapshots.Service
	repo    *snapshots.Repository
	log     zerolog.Logger
}

// NewHandler creates a new snapshots handler
func NewHandler(service *snapshots.Service, repo *snapshots.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleGetNetWorth handles GET /api/networth/{userID}
//
// Serves today's cached snapshot when fresh, otherwise computes one and
// caches it for the scheduled job to replace.
func (h *Handler) HandleGetNetWorth(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	now := time.Now()

	cached, err := h.repo.GetIfFresh(userID, now.UTC().Truncate(24*time.Hour))
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Snapshot cache read failed")
	}
	if cached != nil {
		h.writeSnapshot(w, *cached, true)
		return
	}

	snapshot, err := h.service.Compute(userID, now)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute net worth")
		h.writeError(w, http.StatusInternalServerError, "failed to compute net worth")
		return
	}

	if err := h.repo.Store(snapshot, snapshots.TTLNetWorth); err != nil {
		// Cache miss next time, the response is still good.
		h.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to cache snapshot")
	}

	h.writeSnapshot(w, snapshot, false)
}

// HandleGetHistory handles GET /api/networth/{userID}/history
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	history, err := h.repo.History(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load snapshot history")
		h.writeError(w, http.StatusInternalServerError, "failed to load snapshot history")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": history,
		"metadata": map[string]interface{}{
			"user_id":   userID,
			"count":     len(history),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleRefreshNetWorth handles POST /api/networth/{userID}/refresh
func (h *Handler) HandleRefreshNetWorth(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snapshot, err := h.service.Compute(userID, time.Now())
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute net worth")
		h.writeError(w, http.StatusInternalServerError, "failed to compute net worth")
		return
	}

	if err := h.repo.Store(snapshot, snapshots.TTLNetWorth); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to store snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to store snapshot")
		return
	}

	h.writeSnapshot(w, snapshot, false)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, snapshot snapshots.NetWorth, cached bool) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": snapshot,
		"metadata": map[string]interface{}{
			"cached":    cached,
			"timestamp": time.Now().Format(time.RFC3339),
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
