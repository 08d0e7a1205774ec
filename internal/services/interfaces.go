package services

import (
	"context"
	"time"

	"github.com/dedocracia/dedocracia/internal/models"
)

// CandidateServicer defines the interface for candidate operations
type CandidateServicer interface {
	Add(ctx context.Context, name, description string) (*models.Candidate, error)
	Remove(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.Candidate, error)
	Get(ctx context.Context, id int) (*models.Candidate, error)
}

// VoterServicer defines the interface for voter operations
type VoterServicer interface {
	Register(ctx context.Context, fingerprintID string) (*models.Voter, bool, error)
	Authenticate(ctx context.Context, fingerprintID string) (*models.Voter, error)
	List(ctx context.Context) ([]models.Voter, error)
}

// BallotServicer defines the interface for ballot operations
type BallotServicer interface {
	Cast(ctx context.Context, voterID, candidateID int) (int, error)
	CastByFingerprint(ctx context.Context, fingerprintID string, candidateID int) (int, error)
	List(ctx context.Context) ([]models.Ballot, error)
}

// LifecycleServicer defines the interface for election lifecycle operations
type LifecycleServicer interface {
	Load(ctx context.Context) error
	State() models.ElectionState
	Open(ctx context.Context) ([]models.Candidate, error)
	Close(ctx context.Context) (*models.TallyResult, error)
	Reset(ctx context.Context) error
	SetNotifier(n DeviceNotifier)
	SetBroadcaster(b Broadcaster)
	SetStoreTimeout(d time.Duration)
}

// ResultsServicer defines the interface for tally operations
type ResultsServicer interface {
	ComputeTally(ctx context.Context) (*models.TallyResult, error)
	Leaders(ctx context.Context) ([]models.CandidateCount, error)
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// Ensure concrete types implement interfaces
var (
	_ CandidateServicer = (*CandidateService)(nil)
	_ VoterServicer     = (*VoterService)(nil)
	_ BallotServicer    = (*BallotService)(nil)
	_ LifecycleServicer = (*LifecycleService)(nil)
	_ ResultsServicer   = (*ResultsService)(nil)
)
