package services

import "github.com/dedocracia/dedocracia/internal/models"

// DeviceNotifier is the outbound port to the scanning device channel.
// Notification happens after the store commit; implementations log their own
// delivery failures and must never surface them to the caller, so a dropped
// confirmation cannot undo a committed registration or vote.
type DeviceNotifier interface {
	NotifyRegistration(outcome models.RegistrationOutcome)
	NotifyVote(outcome models.VoteOutcome)
	PublishCandidates(candidates []models.Candidate)
	PublishResults(result *models.TallyResult)
}

// Broadcaster defines the interface for pushing live updates to dashboard clients
type Broadcaster interface {
	BroadcastElectionStatus(state models.ElectionState)
	BroadcastMessage(msgType string, payload interface{})
}

// NoopNotifier is a DeviceNotifier that discards everything.
// Used when no device channel is configured, and in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyRegistration(models.RegistrationOutcome) {}
func (NoopNotifier) NotifyVote(models.VoteOutcome)                 {}
func (NoopNotifier) PublishCandidates([]models.Candidate)          {}
func (NoopNotifier) PublishResults(*models.TallyResult)            {}

// NoopBroadcaster is a Broadcaster that discards everything
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastElectionStatus(models.ElectionState) {}
func (NoopBroadcaster) BroadcastMessage(string, interface{})         {}
