package handlers

import (
	"net/http"
)

// handleGetResults returns per-candidate vote counts,
// ordered by votes then name
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.Results.ComputeTally(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result.Counts)
}

// handleGetLeaders returns the current standings
func (h *Handlers) handleGetLeaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.Results.Leaders(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leaders)
}

// handleGetTally returns the full tally with outcome classification
func (h *Handlers) handleGetTally(w http.ResponseWriter, r *http.Request) {
	result, err := h.Results.ComputeTally(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// handleGetStats returns aggregate counts for the admin dashboard
func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Results.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}
