package services

import (
	"context"
	"time"

	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	GetVoteCounts(ctx context.Context) ([]models.CandidateCount, error)
	CountBallots(ctx context.Context) (int, error)
	CountVoters(ctx context.Context) (int, error)
	CountCandidates(ctx context.Context) (int, error)
}

// ResultsService computes tallies. The tally is a pure function of the
// committed candidate and ballot rows; nothing is cached and nothing is
// mutated, so repeated calls over the same rows yield identical results.
type ResultsService struct {
	log          logger.Logger
	repo         ResultsServiceRepository
	storeTimeout time.Duration
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{
		log:          log,
		repo:         repo,
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout overrides the bounded timeout applied to store accesses
func (s *ResultsService) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.storeTimeout = d
	}
}

// ComputeTally aggregates the ballot ledger into per-candidate counts and
// classifies the outcome. Counts arrive ordered by votes descending then
// name ascending, so the tie set is the leading run sharing the top count.
func (s *ResultsService) ComputeTally(ctx context.Context) (*models.TallyResult, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	counts, err := s.repo.GetVoteCounts(tctx)
	if err != nil {
		return nil, storeErr("aggregate vote counts", err)
	}
	totalVoters, err := s.repo.CountBallots(tctx)
	if err != nil {
		return nil, storeErr("count ballots", err)
	}

	result := &models.TallyResult{
		Counts:      counts,
		TotalVoters: totalVoters,
	}

	if len(counts) == 0 {
		result.Outcome = models.OutcomeEmpty
		return result, nil
	}

	max := counts[0].Votes
	tied := []models.CandidateCount{counts[0]}
	for _, cc := range counts[1:] {
		if cc.Votes != max {
			break
		}
		tied = append(tied, cc)
	}

	if len(tied) == 1 {
		result.Outcome = models.OutcomeWinner
		result.Winner = &tied[0]
	} else {
		result.Outcome = models.OutcomeTie
		result.Tied = tied
	}

	return result, nil
}

// Leaders returns the ranked per-candidate counts for the dashboard
func (s *ResultsService) Leaders(ctx context.Context) ([]models.CandidateCount, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	counts, err := s.repo.GetVoteCounts(tctx)
	if err != nil {
		return nil, storeErr("aggregate vote counts", err)
	}
	return counts, nil
}

// Stats returns headline counts for the admin dashboard
func (s *ResultsService) Stats(ctx context.Context) (map[string]interface{}, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	candidates, err := s.repo.CountCandidates(tctx)
	if err != nil {
		return nil, storeErr("count candidates", err)
	}
	voters, err := s.repo.CountVoters(tctx)
	if err != nil {
		return nil, storeErr("count voters", err)
	}
	ballots, err := s.repo.CountBallots(tctx)
	if err != nil {
		return nil, storeErr("count ballots", err)
	}

	return map[string]interface{}{
		"candidates": candidates,
		"voters":     voters,
		"ballots":    ballots,
	}, nil
}
