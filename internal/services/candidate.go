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

// LifecycleGate exposes the current election state to services that gate
// their operations on it
type LifecycleGate interface {
	State() models.ElectionState
}

// CandidateService handles candidate-related business logic
type CandidateService struct {
	log          logger.Logger
	repo         repository.CandidateRepository
	lifecycle    LifecycleGate
	storeTimeout time.Duration
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(log logger.Logger, repo repository.CandidateRepository, lifecycle LifecycleGate) *CandidateService {
	return &CandidateService{
		log:          log,
		repo:         repo,
		lifecycle:    lifecycle,
		storeTimeout: DefaultStoreTimeout,
	}
}

// SetStoreTimeout overrides the bounded timeout applied to store accesses
func (s *CandidateService) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		s.storeTimeout = d
	}
}

// Add registers a new candidate. Only legal during Setup.
func (s *CandidateService) Add(ctx context.Context, name, description string) (*models.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.InvalidInput("candidate name is required")
	}
	if state := s.lifecycle.State(); state != models.StateSetup {
		return nil, errors.IllegalStatef("candidates can only be added during setup, election is %s", state)
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	id, err := s.repo.CreateCandidate(tctx, name, description)
	if err != nil {
		return nil, storeErr("create candidate", err)
	}

	s.log.Info("Candidate added", "id", id, "name", name)
	return &models.Candidate{ID: int(id), Name: name, Description: description}, nil
}

// Remove deletes a candidate. Only legal during Setup.
func (s *CandidateService) Remove(ctx context.Context, id int) error {
	if state := s.lifecycle.State(); state != models.StateSetup {
		return errors.IllegalStatef("candidates can only be removed during setup, election is %s", state)
	}

	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.DeleteCandidate(tctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundf("candidate %d not found", id)
		}
		return storeErr("delete candidate", err)
	}

	s.log.Info("Candidate removed", "id", id)
	return nil
}

// List returns all candidates ordered by id ascending
func (s *CandidateService) List(ctx context.Context) ([]models.Candidate, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	candidates, err := s.repo.ListCandidates(tctx)
	if err != nil {
		return nil, storeErr("list candidates", err)
	}
	return candidates, nil
}

// Get returns a single candidate by id
func (s *CandidateService) Get(ctx context.Context, id int) (*models.Candidate, error) {
	tctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	candidate, err := s.repo.GetCandidate(tctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("candidate %d not found", id)
		}
		return nil, storeErr("get candidate", err)
	}
	return candidate, nil
}
