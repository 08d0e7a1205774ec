package services_test

import (
	"context"
	"testing"

	"github.com/dedocracia/dedocracia/internal/errors"
	"github.com/dedocracia/dedocracia/internal/models"
)

// Full election run: setup with candidates, open, register, vote, close, tally.
func TestElection_HappyPath(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")

	opened, err := e.Lifecycle.Open(ctx)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(opened) != 2 {
		t.Fatalf("expected 2 published candidates, got %d", len(opened))
	}

	voter, created, err := e.Voters.Register(ctx, "fp-001")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !created {
		t.Error("expected a fresh registration")
	}

	ballotID, err := e.Ballots.Cast(ctx, voter.ID, candIDs[0])
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if ballotID == 0 {
		t.Error("expected a ballot id to be assigned")
	}

	result, err := e.Lifecycle.Close(ctx)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if result.Outcome != models.OutcomeWinner {
		t.Fatalf("expected winner outcome, got %s", result.Outcome)
	}
	if result.Winner.Name != "Alice" || result.Winner.Votes != 1 {
		t.Errorf("expected Alice winning with 1 vote, got %+v", result.Winner)
	}
	if e.Lifecycle.State() != models.StateClosed {
		t.Errorf("expected closed election, got %s", e.Lifecycle.State())
	}
	if len(e.Notifier.Results) != 1 {
		t.Errorf("expected 1 published result, got %d", len(e.Notifier.Results))
	}
}

// A voter's second vote is rejected and the first ballot stands
func TestElection_SecondVoteNeverCounts(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)

	voter, _, err := e.Voters.Register(ctx, "fp-002")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.Ballots.Cast(ctx, voter.ID, candIDs[0]); err != nil {
		t.Fatalf("first Cast failed: %v", err)
	}
	_, err = e.Ballots.Cast(ctx, voter.ID, candIDs[1])
	assertKind(t, err, errors.ErrDuplicateVote)

	result, err := e.Lifecycle.Close(ctx)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if result.Winner == nil || result.Winner.Name != "Alice" {
		t.Errorf("expected the first ballot to stand, got %+v", result.Winner)
	}
	var total int
	for _, cc := range result.Counts {
		total += cc.Votes
	}
	if total != 1 {
		t.Errorf("expected exactly 1 counted vote, got %d", total)
	}
}

// Registering the same fingerprint twice yields one voter and one possible vote
func TestElection_ReRegistrationGrantsNoExtraVote(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)

	first, created, err := e.Voters.Register(ctx, "fp-003")
	if err != nil || !created {
		t.Fatalf("first Register failed: created=%v err=%v", created, err)
	}
	second, created, err := e.Voters.Register(ctx, "fp-003")
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected idempotent re-registration, got created=%v id=%d", created, second.ID)
	}

	if _, err := e.Ballots.CastByFingerprint(ctx, "fp-003", candIDs[0]); err != nil {
		t.Fatalf("CastByFingerprint failed: %v", err)
	}
	_, err = e.Ballots.CastByFingerprint(ctx, "fp-003", candIDs[1])
	assertKind(t, err, errors.ErrDuplicateVote)
}

// Opening without enough candidates leaves the election in setup and
// still votable-into after candidates are added
func TestElection_PrematureOpenThenRecovery(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	mustAddCandidates(t, e, "Alice")
	_, err := e.Lifecycle.Open(ctx)
	assertKind(t, err, errors.ErrPreconditionFailed)
	if e.Lifecycle.State() != models.StateSetup {
		t.Fatalf("expected setup after failed open, got %s", e.Lifecycle.State())
	}

	// Setup is still mutable: add the missing candidate and open
	candIDs := mustAddCandidates(t, e, "Bob")
	if _, err := e.Lifecycle.Open(ctx); err != nil {
		t.Fatalf("Open after recovery failed: %v", err)
	}

	voter, _, err := e.Voters.Register(ctx, "fp-004")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.Ballots.Cast(ctx, voter.ID, candIDs[0]); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
}

// Reset after a completed election allows a fresh one on the same store
func TestElection_ResetAndRunAgain(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)
	voter, _, _ := e.Voters.Register(ctx, "fp-005")
	if _, err := e.Ballots.Cast(ctx, voter.ID, candIDs[0]); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if _, err := e.Lifecycle.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := e.Lifecycle.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	candIDs = mustAddCandidates(t, e, "Carol", "Dave")
	mustOpen(t, e)
	// Prior fingerprints may register and vote again after a reset
	voter, created, err := e.Voters.Register(ctx, "fp-005")
	if err != nil || !created {
		t.Fatalf("re-registration after reset failed: created=%v err=%v", created, err)
	}
	if _, err := e.Ballots.Cast(ctx, voter.ID, candIDs[0]); err != nil {
		t.Fatalf("Cast after reset failed: %v", err)
	}

	result, err := e.Lifecycle.Close(ctx)
	if err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if result.Winner == nil || result.Winner.Name != "Carol" {
		t.Errorf("expected Carol winning the second election, got %+v", result.Winner)
	}
}
