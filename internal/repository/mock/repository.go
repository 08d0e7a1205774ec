package mock

import (
	"context"

	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateBallotError = errors.New("database error")
//	svc := services.NewBallotService(log, mockRepo, lifecycle)
//	_, err := svc.Cast(ctx, voterID, candidateID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Candidate Errors =====
	ListCandidatesError  error
	GetCandidateError    error
	CreateCandidateError error
	DeleteCandidateError error
	CountCandidatesError error

	// ===== Voter Errors =====
	ListVotersError            error
	GetVoterError              error
	GetVoterByFingerprintError error
	CreateVoterError           error
	CountVotersError           error

	// ===== Ballot Errors =====
	CreateBallotError  error
	HasBallotError     error
	ListBallotsError   error
	CountBallotsError  error
	GetVoteCountsError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error

	// ===== Admin Errors =====
	ClearElectionDataError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (m *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	if m.ListCandidatesError != nil {
		return nil, m.ListCandidatesError
	}
	return m.FullRepository.ListCandidates(ctx)
}

func (m *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	if m.GetCandidateError != nil {
		return nil, m.GetCandidateError
	}
	return m.FullRepository.GetCandidate(ctx, id)
}

func (m *Repository) CreateCandidate(ctx context.Context, name, description string) (int64, error) {
	if m.CreateCandidateError != nil {
		return 0, m.CreateCandidateError
	}
	return m.FullRepository.CreateCandidate(ctx, name, description)
}

func (m *Repository) DeleteCandidate(ctx context.Context, id int) error {
	if m.DeleteCandidateError != nil {
		return m.DeleteCandidateError
	}
	return m.FullRepository.DeleteCandidate(ctx, id)
}

func (m *Repository) CountCandidates(ctx context.Context) (int, error) {
	if m.CountCandidatesError != nil {
		return 0, m.CountCandidatesError
	}
	return m.FullRepository.CountCandidates(ctx)
}

func (m *Repository) ListVoters(ctx context.Context) ([]models.Voter, error) {
	if m.ListVotersError != nil {
		return nil, m.ListVotersError
	}
	return m.FullRepository.ListVoters(ctx)
}

func (m *Repository) GetVoter(ctx context.Context, id int) (*models.Voter, error) {
	if m.GetVoterError != nil {
		return nil, m.GetVoterError
	}
	return m.FullRepository.GetVoter(ctx, id)
}

func (m *Repository) GetVoterByFingerprint(ctx context.Context, fingerprintID string) (*models.Voter, error) {
	if m.GetVoterByFingerprintError != nil {
		return nil, m.GetVoterByFingerprintError
	}
	return m.FullRepository.GetVoterByFingerprint(ctx, fingerprintID)
}

func (m *Repository) CreateVoter(ctx context.Context, fingerprintID string) (*models.Voter, bool, error) {
	if m.CreateVoterError != nil {
		return nil, false, m.CreateVoterError
	}
	return m.FullRepository.CreateVoter(ctx, fingerprintID)
}

func (m *Repository) CountVoters(ctx context.Context) (int, error) {
	if m.CountVotersError != nil {
		return 0, m.CountVotersError
	}
	return m.FullRepository.CountVoters(ctx)
}

func (m *Repository) CreateBallot(ctx context.Context, voterID, candidateID int) (int64, error) {
	if m.CreateBallotError != nil {
		return 0, m.CreateBallotError
	}
	return m.FullRepository.CreateBallot(ctx, voterID, candidateID)
}

func (m *Repository) HasBallot(ctx context.Context, voterID int) (bool, error) {
	if m.HasBallotError != nil {
		return false, m.HasBallotError
	}
	return m.FullRepository.HasBallot(ctx, voterID)
}

func (m *Repository) ListBallots(ctx context.Context) ([]models.Ballot, error) {
	if m.ListBallotsError != nil {
		return nil, m.ListBallotsError
	}
	return m.FullRepository.ListBallots(ctx)
}

func (m *Repository) CountBallots(ctx context.Context) (int, error) {
	if m.CountBallotsError != nil {
		return 0, m.CountBallotsError
	}
	return m.FullRepository.CountBallots(ctx)
}

func (m *Repository) GetVoteCounts(ctx context.Context) ([]models.CandidateCount, error) {
	if m.GetVoteCountsError != nil {
		return nil, m.GetVoteCountsError
	}
	return m.FullRepository.GetVoteCounts(ctx)
}

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ClearElectionData(ctx context.Context, settingKey, settingValue string) error {
	if m.ClearElectionDataError != nil {
		return m.ClearElectionDataError
	}
	return m.FullRepository.ClearElectionData(ctx, settingKey, settingValue)
}
