package handlers

import (
	"net/http"

	"github.com/dedocracia/dedocracia/internal/models"
)

// handleCastVote records a ballot for a voter, identified either by
// voter id or by fingerprint
func (h *Handlers) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req VoteCastRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.CandidateID == 0 {
		respondError(w, BadRequest("candidate_id is required"))
		return
	}

	var (
		ballotID int
		err      error
	)
	switch {
	case req.FingerprintID != "":
		ballotID, err = h.Ballot.CastByFingerprint(r.Context(), req.FingerprintID, req.CandidateID)
	case req.VoterID != 0:
		ballotID, err = h.Ballot.Cast(r.Context(), req.VoterID, req.CandidateID)
	default:
		respondError(w, BadRequest("voter_id or fingerprint_id is required"))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, VoteResponse{Status: models.VoteSuccess, BallotID: ballotID})
}

// handleListVotes returns all recorded ballots
func (h *Handlers) handleListVotes(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.Ballot.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ballots)
}
