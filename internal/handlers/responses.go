package handlers

import "github.com/dedocracia/dedocracia/internal/models"

// RegistrationResponse is the response for voter registration
type RegistrationResponse struct {
	Status string       `json:"status"`
	Voter  models.Voter `json:"voter"`
}

// VoteResponse is the response for a cast ballot
type VoteResponse struct {
	Status   string `json:"status"`
	BallotID int    `json:"ballot_id"`
}

// ElectionStatusResponse is the response for election state queries and transitions
type ElectionStatusResponse struct {
	State      models.ElectionState `json:"state"`
	Candidates []models.Candidate   `json:"candidates,omitempty"`
}

// DeviceProvisionResponse describes the device provisioning payload
// alongside its QR rendering endpoint
type DeviceProvisionResponse struct {
	BrokerURL   string `json:"broker_url"`
	TopicPrefix string `json:"topic_prefix"`
}
