package handlers

import (
	"net/http"
)

// handleListCandidates returns all candidates
func (h *Handlers) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.Candidate.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidates)
}

// handleCreateCandidate registers a candidate during setup
func (h *Handlers) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req CandidateCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	candidate, err := h.Candidate.Add(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, candidate)
}

// handleDeleteCandidate removes a candidate during setup
func (h *Handlers) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Candidate.Remove(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondDeleted(w)
}
