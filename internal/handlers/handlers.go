package handlers

import (
	"github.com/dedocracia/dedocracia/internal/auth"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/services"
	"github.com/dedocracia/dedocracia/internal/websocket"
)

// ProvisionInfo is the connection payload encoded into the device
// provisioning QR code
type ProvisionInfo struct {
	BrokerURL   string
	TopicPrefix string
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Candidate services.CandidateServicer
	Voter     services.VoterServicer
	Ballot    services.BallotServicer
	Lifecycle services.LifecycleServicer
	Results   services.ResultsServicer
	Auth      *auth.Auth
	Hub       *websocket.Hub
	Log       logger.Logger
	Provision ProvisionInfo
}

// New creates a new Handlers instance with all dependencies
func New(
	candidate services.CandidateServicer,
	voter services.VoterServicer,
	ballot services.BallotServicer,
	lifecycle services.LifecycleServicer,
	results services.ResultsServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log logger.Logger,
	provision ProvisionInfo,
) *Handlers {
	return &Handlers{
		Candidate: candidate,
		Voter:     voter,
		Ballot:    ballot,
		Lifecycle: lifecycle,
		Results:   results,
		Auth:      adminAuth,
		Hub:       hub,
		Log:       log,
		Provision: provision,
	}
}

// NewForTesting creates a Handlers instance for API endpoint tests
func NewForTesting(
	candidate services.CandidateServicer,
	voter services.VoterServicer,
	ballot services.BallotServicer,
	lifecycle services.LifecycleServicer,
	results services.ResultsServicer,
) *Handlers {
	testAuth := auth.New("test-password")
	return &Handlers{
		Candidate: candidate,
		Voter:     voter,
		Ballot:    ballot,
		Lifecycle: lifecycle,
		Results:   results,
		Auth:      testAuth,
		Log:       logger.New(),
		Provision: ProvisionInfo{BrokerURL: "tcp://localhost:1883", TopicPrefix: "election"},
	}
}
