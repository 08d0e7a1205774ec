package models

// ElectionState is the lifecycle phase of the election
type ElectionState string

const (
	StateSetup  ElectionState = "setup"
	StateOpen   ElectionState = "open"
	StateClosed ElectionState = "closed"
)

// Valid reports whether s is one of the known lifecycle states
func (s ElectionState) Valid() bool {
	switch s {
	case StateSetup, StateOpen, StateClosed:
		return true
	}
	return false
}

// Candidate represents a candidate eligible for votes
type Candidate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Voter represents a registered voter, keyed by the scanner's fingerprint id
type Voter struct {
	ID            int    `json:"id"`
	FingerprintID string `json:"fingerprint_id"`
}

// Ballot links one voter to one candidate
type Ballot struct {
	ID          int `json:"id"`
	VoterID     int `json:"voter_id"`
	CandidateID int `json:"candidate_id"`
}

// CandidateCount is a candidate's vote count in a tally
type CandidateCount struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
}

// Tally outcome classifications
const (
	OutcomeWinner = "winner"
	OutcomeTie    = "tie"
	OutcomeEmpty  = "empty" // no candidates registered
)

// TallyResult is the aggregated election result, recomputed from ballots on demand
type TallyResult struct {
	Counts      []CandidateCount `json:"counts"` // votes desc, name asc
	TotalVoters int              `json:"total_voters"`
	Outcome     string           `json:"outcome"`
	Winner      *CandidateCount  `json:"winner,omitempty"`
	Tied        []CandidateCount `json:"tied,omitempty"`
}

// Registration outcome statuses published to the device channel
const (
	RegistrationCreated = "success"
	RegistrationExists  = "exists"
	RegistrationError   = "error"
)

// Vote outcome statuses published to the device channel
const (
	VoteSuccess   = "success"
	VoteDuplicate = "duplicate"
	VoteError     = "error"
)

// RegistrationOutcome is the confirmation payload for a registration attempt
type RegistrationOutcome struct {
	Status        string `json:"status"`
	FingerprintID string `json:"fingerprint_id"`
	VoterID       int    `json:"voter_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// VoteOutcome is the confirmation payload for a cast attempt
type VoteOutcome struct {
	Status        string `json:"status"`
	FingerprintID string `json:"fingerprint_id,omitempty"`
	VoterID       int    `json:"voter_id,omitempty"`
	CandidateID   int    `json:"candidate_id,omitempty"`
	BallotID      int    `json:"ballot_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// WSMessage represents a WebSocket message pushed to dashboard clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
