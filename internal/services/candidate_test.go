package services_test

import (
	"context"
	"testing"

	"github.com/dedocracia/dedocracia/internal/errors"
)

func TestCandidateAdd(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candidate, err := e.Candidates.Add(ctx, "Alice", "first candidate")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if candidate.ID <= 0 {
		t.Errorf("expected positive candidate id, got %d", candidate.ID)
	}
	if candidate.Name != "Alice" {
		t.Errorf("expected name 'Alice', got '%s'", candidate.Name)
	}
}

func TestCandidateAdd_BlankNameRejected(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	testCases := []string{"", "   ", "\t\n"}
	for _, name := range testCases {
		_, err := e.Candidates.Add(ctx, name, "")
		assertKind(t, err, errors.ErrInvalidInput)
	}
}

func TestCandidateAdd_TrimsName(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candidate, err := e.Candidates.Add(ctx, "  Alice  ", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if candidate.Name != "Alice" {
		t.Errorf("expected trimmed name 'Alice', got '%s'", candidate.Name)
	}
}

func TestCandidateAdd_RejectedOutsideSetup(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)

	_, err := e.Candidates.Add(ctx, "Charlie", "")
	assertKind(t, err, errors.ErrIllegalState)

	if _, err := e.Lifecycle.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	_, err = e.Candidates.Add(ctx, "Charlie", "")
	assertKind(t, err, errors.ErrIllegalState)
}

func TestCandidateRemove(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candidate, err := e.Candidates.Add(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := e.Candidates.Remove(ctx, candidate.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	candidates, err := e.Candidates.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates after removal, got %d", len(candidates))
	}
}

func TestCandidateRemove_NotFound(t *testing.T) {
	e := setupEngine(t)

	err := e.Candidates.Remove(context.Background(), 999)
	assertKind(t, err, errors.ErrNotFound)
}

func TestCandidateRemove_RejectedOutsideSetup(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	ids := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)

	err := e.Candidates.Remove(ctx, ids[0])
	assertKind(t, err, errors.ErrIllegalState)
}

func TestCandidateList_OrderedAndSideEffectFree(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	mustAddCandidates(t, e, "Charlie", "Alice", "Bob")

	first, err := e.Candidates.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	second, err := e.Candidates.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 candidates in both listings, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("listing is not stable at position %d: %+v vs %+v", i, first[i], second[i])
		}
		if i > 0 && first[i].ID <= first[i-1].ID {
			t.Errorf("expected ascending ids, got %d after %d", first[i].ID, first[i-1].ID)
		}
	}
}

// mustAddCandidates adds candidates during setup and returns their ids
func mustAddCandidates(t *testing.T, e *engine, names ...string) []int {
	t.Helper()
	ids := make([]int, 0, len(names))
	for _, name := range names {
		candidate, err := e.Candidates.Add(context.Background(), name, "")
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
		ids = append(ids, candidate.ID)
	}
	return ids
}

// mustOpen opens the election
func mustOpen(t *testing.T, e *engine) {
	t.Helper()
	if _, err := e.Lifecycle.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
}
