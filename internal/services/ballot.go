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

// BallotServiceRepository defines the repository methods needed by BallotService
type BallotServiceRepository interface {
	repository.BallotRepository
	GetVoter(ctx context.Context, id int) (*models.Voter, error)
	GetVoterByFingerprint(ctx context.Context, fingerprintID string) (*models.Voter, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
}

// BallotService handles ballot casting. The one-vote-per-voter invariant is
// enforced by the store's uniqueness constraint at insert time; the HasBallot
// pre-check below only short-circuits the common sequential duplicate.
type BallotService struct {
	log          logger.Logger
	repo         BallotServiceRepository
	lifecycle    LifecycleGate
	notifier     DeviceNotifier
	broadcaster  Broadcaster
	storeTimeout time.Duration
}

// NewBallotService creates a new BallotService
func NewBallotService(log logger.Logger, repo BallotServiceRepository, lifecycle LifecycleGate) *BallotService {
	return &BallotService{
		log:          log,
		repo:         repo,
		lifecycle:    lifecycle,
		notifier:     NoopNotifier{},
		broadcaster:  NoopBroadcaster{},
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetNotifier sets the device channel notifier
func (s *BallotService) SetNotifier(n DeviceNotifier) {
	if n != nil {
		s.notifier = n
	}
}

// SetBroadcaster sets the broadcaster for sending updates to dashboard clients
func (s *BallotService) SetBroadcaster(b Broadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

// SetStoreTimeout overrides the bounded timeout applied to store accesses
func (s *BallotService) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.storeTimeout = d
	}
}

// Cast records a ballot for a voter. Returns the ballot id.
func (s *BallotService) Cast(ctx context.Context, voterID, candidateID int) (int, error) {
	return s.cast(ctx, voterID, candidateID, "")
}

// CastByFingerprint records a ballot for the voter registered under a
// fingerprint id. This is the flow the scanning device uses.
func (s *BallotService) CastByFingerprint(ctx context.Context, fingerprintID string, candidateID int) (int, error) {
	fingerprintID = strings.TrimSpace(fingerprintID)
	if fingerprintID == "" {
		return 0, errors.InvalidInput("fingerprint id is required")
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	voter, err := s.repo.GetVoterByFingerprint(tctx, fingerprintID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			err = errors.NotFoundf("no voter registered for fingerprint %s", fingerprintID)
		} else {
			err = storeErr("resolve voter", err)
		}
		s.notifier.NotifyVote(models.VoteOutcome{
			Status:        models.VoteError,
			FingerprintID: fingerprintID,
			CandidateID:   candidateID,
			Message:       err.Error(),
		})
		return 0, err
	}

	return s.cast(ctx, voter.ID, candidateID, fingerprintID)
}

// cast checks preconditions in order (state, voter, existing ballot,
// candidate), then inserts. The insert's uniqueness constraint decides
// concurrent races: the loser gets DuplicateVote, never a second row.
func (s *BallotService) cast(ctx context.Context, voterID, candidateID int, fingerprintID string) (int, error) {
	if state := s.lifecycle.State(); state != models.StateOpen {
		err := errors.IllegalStatef("votes can only be cast while the election is open, election is %s", state)
		s.notifier.NotifyVote(models.VoteOutcome{
			Status:        models.VoteError,
			FingerprintID: fingerprintID,
			VoterID:       voterID,
			CandidateID:   candidateID,
			Message:       err.Error(),
		})
		return 0, err
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	voter, err := s.repo.GetVoter(tctx, voterID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return 0, errors.NotFoundf("voter %d not found", voterID)
		}
		return 0, storeErr("get voter", err)
	}
	if fingerprintID == "" {
		fingerprintID = voter.FingerprintID
	}

	// Latency optimization only; the constraint below is the guarantee.
	has, err := s.repo.HasBallot(tctx, voterID)
	if err != nil {
		return 0, storeErr("check existing ballot", err)
	}
	if has {
		return 0, s.duplicate(voterID, candidateID, fingerprintID)
	}

	if _, err := s.repo.GetCandidate(tctx, candidateID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			err = errors.NotFoundf("candidate %d not found", candidateID)
		} else {
			err = storeErr("get candidate", err)
		}
		s.notifier.NotifyVote(models.VoteOutcome{
			Status:        models.VoteError,
			FingerprintID: fingerprintID,
			VoterID:       voterID,
			CandidateID:   candidateID,
			Message:       err.Error(),
		})
		return 0, err
	}

	ballotID, err := s.repo.CreateBallot(tctx, voterID, candidateID)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrDuplicate):
			return 0, s.duplicate(voterID, candidateID, fingerprintID)
		case stderrors.Is(err, repository.ErrForeignKey):
			return 0, errors.NotFoundf("candidate %d not found", candidateID)
		default:
			err = storeErr("record ballot", err)
			s.notifier.NotifyVote(models.VoteOutcome{
				Status:        models.VoteError,
				FingerprintID: fingerprintID,
				VoterID:       voterID,
				CandidateID:   candidateID,
				Message:       err.Error(),
			})
			return 0, err
		}
	}

	s.log.Info("Vote recorded", "ballot_id", ballotID, "voter_id", voterID, "candidate_id", candidateID)
	s.notifier.NotifyVote(models.VoteOutcome{
		Status:        models.VoteSuccess,
		FingerprintID: fingerprintID,
		VoterID:       voterID,
		CandidateID:   candidateID,
		BallotID:      int(ballotID),
	})
	s.broadcaster.BroadcastMessage("vote_recorded", map[string]interface{}{
		"ballot_id":    int(ballotID),
		"candidate_id": candidateID,
	})

	return int(ballotID), nil
}

// duplicate reports an already-voted attempt. Recoverable and expected:
// the caller is informed, nothing is mutated.
func (s *BallotService) duplicate(voterID, candidateID int, fingerprintID string) error {
	s.log.Info("Duplicate vote rejected", "voter_id", voterID, "candidate_id", candidateID)
	s.notifier.NotifyVote(models.VoteOutcome{
		Status:        models.VoteDuplicate,
		FingerprintID: fingerprintID,
		VoterID:       voterID,
		CandidateID:   candidateID,
	})
	return errors.DuplicateVotef("voter %d has already voted", voterID)
}

// List returns all recorded ballots
func (s *BallotService) List(ctx context.Context) ([]models.Ballot, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	ballots, err := s.repo.ListBallots(tctx)
	if err != nil {
		return nil, storeErr("list ballots", err)
	}
	return ballots, nil
}
