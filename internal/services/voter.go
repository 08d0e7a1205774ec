package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/dedocracia/dedocracia/internal/errors"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/repository"
)

// VoterService handles voter registration and lookup
type VoterService struct {
	log          logger.Logger
	repo         repository.VoterRepository
	notifier     DeviceNotifier
	broadcaster  Broadcaster
	storeTimeout time.Duration
}

// NewVoterService creates a new VoterService
func NewVoterService(log logger.Logger, repo repository.VoterRepository) *VoterService {
	return &VoterService{
		log:          log,
		repo:         repo,
		notifier:     NoopNotifier{},
		broadcaster:  NoopBroadcaster{},
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetNotifier sets the device channel notifier
func (s *VoterService) SetNotifier(n DeviceNotifier) {
	if n != nil {
		s.notifier = n
	}
}

// SetBroadcaster sets the broadcaster for sending updates to dashboard clients
func (s *VoterService) SetBroadcaster(b Broadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

// SetStoreTimeout overrides the bounded timeout applied to store accesses
func (s *VoterService) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.storeTimeout = d
	}
}

// Register registers a voter for a fingerprint id. Idempotent: a repeat
// registration returns the existing voter with created=false and is not an
// error. The outcome is confirmed to the device channel after the commit;
// a failed confirmation never rolls the registration back.
func (s *VoterService) Register(ctx context.Context, fingerprintID string) (*models.Voter, bool, error) {
	fingerprintID = strings.TrimSpace(fingerprintID)
	if fingerprintID == "" {
		return nil, false, errors.InvalidInput("fingerprint id is required")
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	voter, created, err := s.repo.CreateVoter(tctx, fingerprintID)
	if err != nil {
		err = storeErr("register voter", err)
		s.notifier.NotifyRegistration(models.RegistrationOutcome{
			Status:        models.RegistrationError,
			FingerprintID: fingerprintID,
			Message:       err.Error(),
		})
		return nil, false, err
	}

	status := models.RegistrationExists
	if created {
		status = models.RegistrationCreated
		s.log.Info("Voter registered", "voter_id", voter.ID, "fingerprint_id", fingerprintID)
		s.broadcaster.BroadcastMessage("voter_registered", map[string]interface{}{
			"voter_id": voter.ID,
		})
	} else {
		s.log.Debug("Voter already registered", "voter_id", voter.ID, "fingerprint_id", fingerprintID)
	}

	s.notifier.NotifyRegistration(models.RegistrationOutcome{
		Status:        status,
		FingerprintID: fingerprintID,
		VoterID:       voter.ID,
	})

	return voter, created, nil
}

// Authenticate resolves a fingerprint id to a registered voter
func (s *VoterService) Authenticate(ctx context.Context, fingerprintID string) (*models.Voter, error) {
	fingerprintID = strings.TrimSpace(fingerprintID)
	if fingerprintID == "" {
		return nil, errors.InvalidInput("fingerprint id is required")
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	voter, err := s.repo.GetVoterByFingerprint(tctx, fingerprintID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("no voter registered for fingerprint %s", fingerprintID)
		}
		return nil, storeErr("authenticate voter", err)
	}
	return voter, nil
}

// List returns all registered voters
func (s *VoterService) List(ctx context.Context) ([]models.Voter, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	voters, err := s.repo.ListVoters(tctx)
	if err != nil {
		return nil, storeErr("list voters", err)
	}
	return voters, nil
}
