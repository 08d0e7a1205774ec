package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/dedocracia/dedocracia/internal/errors"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/repository"
)

const electionStateKey = "election_state"

// LifecycleRepository defines the repository methods needed by LifecycleService
type LifecycleRepository interface {
	repository.SettingsRepository
	repository.AdminRepository
	CountCandidates(ctx context.Context) (int, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
}

// TallyComputer produces the tally published when the election closes
type TallyComputer interface {
	ComputeTally(ctx context.Context) (*models.TallyResult, error)
}

// LifecycleService owns the election state machine. It is the only component
// that writes the state; all transitions are serialized under its mutex.
type LifecycleService struct {
	log          logger.Logger
	repo         LifecycleRepository
	tally        TallyComputer
	notifier     DeviceNotifier
	broadcaster  Broadcaster
	storeTimeout time.Duration

	mu    sync.Mutex
	state models.ElectionState
}

// NewLifecycleService creates a new LifecycleService starting in Setup.
// Call Load to pick up a previously persisted state.
func NewLifecycleService(log logger.Logger, repo LifecycleRepository, tally TallyComputer) *LifecycleService {
	return &LifecycleService{
		log:          log,
		repo:         repo,
		tally:        tally,
		notifier:     NoopNotifier{},
		broadcaster:  NoopBroadcaster{},
		storeTimeout: DefaultStoreTimeout,
		state:        models.StateSetup,
	}
}

// SetNotifier sets the device channel notifier
func (s *LifecycleService) SetNotifier(n DeviceNotifier) {
	if n != nil {
		s.notifier = n
	}
}

// SetBroadcaster sets the broadcaster for sending updates to dashboard clients
func (s *LifecycleService) SetBroadcaster(b Broadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

// SetStoreTimeout overrides the bounded timeout applied to store accesses
func (s *LifecycleService) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.storeTimeout = d
	}
}

// Load restores the persisted election state. An unknown or missing value
// falls back to Setup.
func (s *LifecycleService) Load(ctx context.Context) error {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	value, err := s.repo.GetSetting(tctx, electionStateKey)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return storeErr("load election state", err)
	}

	state := models.ElectionState(value)
	if !state.Valid() {
		s.log.Warn("Ignoring unknown persisted election state", "value", value)
		return nil
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.log.Info("Election state restored", "state", state)
	return nil
}

// State returns the current lifecycle state
func (s *LifecycleService) State() models.ElectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open transitions Setup -> Open. It requires at least two candidates and
// publishes the finalized candidate list to the device channel on success.
func (s *LifecycleService) Open(ctx context.Context) ([]models.Candidate, error) {
	candidates, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	// Notifications run after the mutex is released: the gateway and the
	// hub read State() from their publish paths, and a callout under the
	// lock would deadlock them.
	s.notifier.PublishCandidates(candidates)
	s.broadcaster.BroadcastElectionStatus(models.StateOpen)

	return candidates, nil
}

func (s *LifecycleService) open(ctx context.Context) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateSetup {
		return nil, errors.IllegalStatef("cannot open election from state %q", s.state)
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	count, err := s.repo.CountCandidates(tctx)
	if err != nil {
		return nil, storeErr("count candidates", err)
	}
	if count < 2 {
		return nil, errors.PreconditionFailedf("at least 2 candidates are required to open the election, have %d", count)
	}

	candidates, err := s.repo.ListCandidates(tctx)
	if err != nil {
		return nil, storeErr("list candidates", err)
	}

	if err := s.repo.SetSetting(tctx, electionStateKey, string(models.StateOpen)); err != nil {
		return nil, storeErr("persist election state", err)
	}
	s.state = models.StateOpen

	s.log.Info("Election opened", "candidates", count)
	return candidates, nil
}

// Close transitions Open -> Closed. The tally computed here is the
// authoritative result and is published to the device channel.
func (s *LifecycleService) Close(ctx context.Context) (*models.TallyResult, error) {
	result, err := s.close(ctx)
	if err != nil {
		return nil, err
	}

	// Outside the mutex, see Open
	s.notifier.PublishResults(result)
	s.broadcaster.BroadcastElectionStatus(models.StateClosed)
	s.broadcaster.BroadcastMessage("tally", result)

	return result, nil
}

func (s *LifecycleService) close(ctx context.Context) (*models.TallyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateOpen {
		return nil, errors.IllegalStatef("cannot close election from state %q", s.state)
	}

	result, err := s.tally.ComputeTally(ctx)
	if err != nil {
		return nil, err
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.SetSetting(tctx, electionStateKey, string(models.StateClosed)); err != nil {
		return nil, storeErr("persist election state", err)
	}
	s.state = models.StateClosed

	s.log.Info("Election closed", "outcome", result.Outcome, "total_voters", result.TotalVoters)
	return result, nil
}

// Reset clears all candidates, voters and ballots and returns to Setup.
// Legal from any state; this is the only way backwards.
func (s *LifecycleService) Reset(ctx context.Context) error {
	if err := s.reset(ctx); err != nil {
		return err
	}

	// Outside the mutex, see Open
	s.broadcaster.BroadcastElectionStatus(models.StateSetup)
	return nil
}

func (s *LifecycleService) reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	// The setup marker is written inside the same transaction that clears
	// the data; a partial reset can never strand cleared tables behind an
	// open or closed state.
	if err := s.repo.ClearElectionData(tctx, electionStateKey, string(models.StateSetup)); err != nil {
		return storeErr("clear election data", err)
	}
	s.state = models.StateSetup

	s.log.Info("Election reset")
	return nil
}
