package services_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/dedocracia/dedocracia/internal/errors"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/repository"
	"github.com/dedocracia/dedocracia/internal/services"
	"github.com/dedocracia/dedocracia/internal/testutil"
)

// engine bundles the wired services used by most tests
type engine struct {
	Candidates *services.CandidateService
	Voters     *services.VoterService
	Ballots    *services.BallotService
	Lifecycle  *services.LifecycleService
	Results    *services.ResultsService
	Repo       *repository.Repository
	Notifier   *captureNotifier
}

// setupEngine wires the full service graph against a fresh in-memory repository
func setupEngine(t *testing.T) *engine {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()
	notifier := &captureNotifier{}

	resultsSvc := services.NewResultsService(log, repo)
	lifecycleSvc := services.NewLifecycleService(log, repo, resultsSvc)
	lifecycleSvc.SetNotifier(notifier)
	candidateSvc := services.NewCandidateService(log, repo, lifecycleSvc)
	voterSvc := services.NewVoterService(log, repo)
	voterSvc.SetNotifier(notifier)
	ballotSvc := services.NewBallotService(log, repo, lifecycleSvc)
	ballotSvc.SetNotifier(notifier)

	return &engine{
		Candidates: candidateSvc,
		Voters:     voterSvc,
		Ballots:    ballotSvc,
		Lifecycle:  lifecycleSvc,
		Results:    resultsSvc,
		Repo:       repo,
		Notifier:   notifier,
	}
}

// captureNotifier records device channel notifications for assertions
type captureNotifier struct {
	mu            sync.Mutex
	Registrations []models.RegistrationOutcome
	Votes         []models.VoteOutcome
	Candidates    [][]models.Candidate
	Results       []*models.TallyResult
}

func (c *captureNotifier) NotifyRegistration(outcome models.RegistrationOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Registrations = append(c.Registrations, outcome)
}

func (c *captureNotifier) NotifyVote(outcome models.VoteOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Votes = append(c.Votes, outcome)
}

func (c *captureNotifier) PublishCandidates(candidates []models.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Candidates = append(c.Candidates, candidates)
}

func (c *captureNotifier) PublishResults(result *models.TallyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Results = append(c.Results, result)
}

func (c *captureNotifier) LastVote(t *testing.T) models.VoteOutcome {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Votes) == 0 {
		t.Fatal("expected at least one vote notification")
	}
	return c.Votes[len(c.Votes)-1]
}

// captureBroadcaster records dashboard broadcasts for assertions
type captureBroadcaster struct {
	mu       sync.Mutex
	States   []models.ElectionState
	Messages []broadcastMessage
}

type broadcastMessage struct {
	Type    string
	Payload interface{}
}

func (c *captureBroadcaster) BroadcastElectionStatus(state models.ElectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.States = append(c.States, state)
}

func (c *captureBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = append(c.Messages, broadcastMessage{Type: msgType, Payload: payload})
}

func (c *captureBroadcaster) ByType(msgType string) []broadcastMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []broadcastMessage
	for _, m := range c.Messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

// asAppError unwraps err into an application error
func asAppError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}

// assertKind fails the test unless err carries the expected error kind
func assertKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", kind)
	}
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected error kind %d, got %d: %v", kind, appErr.Kind, err)
	}
}
