package handlers

import (
	"net/http"
)

// handleGetElectionStatus returns the current lifecycle state
func (h *Handlers) handleGetElectionStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, ElectionStatusResponse{State: h.Lifecycle.State()})
}

// handleOpenElection transitions the election from setup to open and
// publishes the candidate list
func (h *Handlers) handleOpenElection(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.Lifecycle.Open(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, ElectionStatusResponse{
		State:      h.Lifecycle.State(),
		Candidates: candidates,
	})
}

// handleCloseElection closes the election and returns the final tally
func (h *Handlers) handleCloseElection(w http.ResponseWriter, r *http.Request) {
	result, err := h.Lifecycle.Close(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, result)
}

// handleResetElection wipes all election data and returns to setup
func (h *Handlers) handleResetElection(w http.ResponseWriter, r *http.Request) {
	if err := h.Lifecycle.Reset(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Election reset")
}
