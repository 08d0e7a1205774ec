package repository

import (
	"context"

	"github.com/dedocracia/dedocracia/internal/models"
)

// CandidateRepository defines candidate data operations
type CandidateRepository interface {
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, name, description string) (int64, error)
	DeleteCandidate(ctx context.Context, id int) error
	CountCandidates(ctx context.Context) (int, error)
}

// VoterRepository defines voter data operations
type VoterRepository interface {
	ListVoters(ctx context.Context) ([]models.Voter, error)
	GetVoter(ctx context.Context, id int) (*models.Voter, error)
	GetVoterByFingerprint(ctx context.Context, fingerprintID string) (*models.Voter, error)
	// CreateVoter is idempotent: when a voter with fingerprintID already
	// exists it returns that voter with created=false.
	CreateVoter(ctx context.Context, fingerprintID string) (voter *models.Voter, created bool, err error)
	CountVoters(ctx context.Context) (int, error)
}

// BallotRepository defines ballot data operations
type BallotRepository interface {
	// CreateBallot inserts a ballot. Returns ErrDuplicate when the voter
	// already has one and ErrForeignKey when voter or candidate is unknown.
	CreateBallot(ctx context.Context, voterID, candidateID int) (int64, error)
	HasBallot(ctx context.Context, voterID int) (bool, error)
	ListBallots(ctx context.Context) ([]models.Ballot, error)
	CountBallots(ctx context.Context) (int, error)
	// GetVoteCounts returns one row per candidate, including zero-vote
	// candidates, ordered by vote count descending then name ascending.
	GetVoteCounts(ctx context.Context) ([]models.CandidateCount, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// AdminRepository defines destructive maintenance operations
type AdminRepository interface {
	// ClearElectionData removes all candidates, voters and ballots,
	// restarts their identity counters and writes the given setting, all
	// in one transaction. A failed reset leaves both data and setting
	// untouched.
	ClearElectionData(ctx context.Context, settingKey, settingValue string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	CandidateRepository
	VoterRepository
	BallotRepository
	SettingsRepository
	AdminRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
