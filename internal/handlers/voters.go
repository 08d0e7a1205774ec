package handlers

import (
	"net/http"

	"github.com/dedocracia/dedocracia/internal/models"
)

// handleRegisterVoter registers a fingerprint, idempotently.
// Re-registering an existing fingerprint returns the original voter with 200;
// a fresh registration returns 201.
func (h *Handlers) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req VoterRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	voter, created, err := h.Voter.Register(r.Context(), req.FingerprintID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := RegistrationResponse{Voter: *voter}
	if created {
		resp.Status = models.RegistrationCreated
		respondCreated(w, resp)
		return
	}
	resp.Status = models.RegistrationExists
	respondOK(w, resp)
}

// handleAuthenticateVoter looks up the voter registered for a fingerprint
func (h *Handlers) handleAuthenticateVoter(w http.ResponseWriter, r *http.Request) {
	var req VoterAuthenticateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	voter, err := h.Voter.Authenticate(r.Context(), req.FingerprintID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, voter)
}

// handleListVoters returns all registered voters
func (h *Handlers) handleListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.Voter.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, voters)
}
