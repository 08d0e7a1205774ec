package handlers

// CandidateCreateRequest represents a request to register a candidate
type CandidateCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// VoterRegisterRequest represents a fingerprint registration request
type VoterRegisterRequest struct {
	FingerprintID string `json:"fingerprint_id"`
}

// VoterAuthenticateRequest represents a fingerprint lookup request
type VoterAuthenticateRequest struct {
	FingerprintID string `json:"fingerprint_id"`
}

// VoteCastRequest represents a request to cast a ballot.
// Either voter_id or fingerprint_id identifies the voter.
type VoteCastRequest struct {
	VoterID       int    `json:"voter_id,omitempty"`
	FingerprintID string `json:"fingerprint_id,omitempty"`
	CandidateID   int    `json:"candidate_id"`
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Password string `json:"password"`
}

// LogLevelRequest represents a request to change the log level
type LogLevelRequest struct {
	Level       string `json:"level"`
	HTTPLogging *bool  `json:"http_logging,omitempty"`
}
