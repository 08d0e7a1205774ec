package services_test

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	"github.com/dedocracia/dedocracia/internal/models"
)

// castVotes registers fresh voters and casts the requested number of votes
// for each candidate id
func castVotes(t *testing.T, e *engine, votesPerCandidate map[int]int) {
	t.Helper()
	ctx := context.Background()
	fingerprint := 1000
	for candID, n := range votesPerCandidate {
		for i := 0; i < n; i++ {
			voter, _, err := e.Voters.Register(ctx, strconv.Itoa(fingerprint))
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}
			fingerprint++
			if _, err := e.Ballots.Cast(ctx, voter.ID, candID); err != nil {
				t.Fatalf("Cast for candidate %d failed: %v", candID, err)
			}
		}
	}
}

func TestComputeTally_ClearWinner(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)
	castVotes(t, e, map[int]int{candIDs[0]: 3, candIDs[1]: 1})

	result, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}

	if result.Outcome != models.OutcomeWinner {
		t.Errorf("expected winner outcome, got %s", result.Outcome)
	}
	if result.Winner == nil || result.Winner.Name != "Alice" || result.Winner.Votes != 3 {
		t.Errorf("expected winner Alice with 3 votes, got %+v", result.Winner)
	}
	if result.TotalVoters != 4 {
		t.Errorf("expected 4 total voters, got %d", result.TotalVoters)
	}
	if len(result.Tied) != 0 {
		t.Errorf("expected empty tie set for a clear winner, got %d", len(result.Tied))
	}
}

func TestComputeTally_TieSet(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob", "Charlie")
	mustOpen(t, e)
	// Alice 5, Bob 5, Charlie 3
	castVotes(t, e, map[int]int{candIDs[0]: 5, candIDs[1]: 5, candIDs[2]: 3})

	result, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}

	if result.Outcome != models.OutcomeTie {
		t.Fatalf("expected tie outcome, got %s", result.Outcome)
	}
	if result.Winner != nil {
		t.Errorf("expected no winner on a tie, got %+v", result.Winner)
	}
	if len(result.Tied) != 2 {
		t.Fatalf("expected tie between 2 candidates, got %d", len(result.Tied))
	}
	// Tie set is name-ordered and excludes Charlie
	if result.Tied[0].Name != "Alice" || result.Tied[1].Name != "Bob" {
		t.Errorf("expected tie set [Alice Bob], got [%s %s]",
			result.Tied[0].Name, result.Tied[1].Name)
	}
	for _, cc := range result.Tied {
		if cc.Votes != 5 {
			t.Errorf("expected 5 votes for tied candidate %s, got %d", cc.Name, cc.Votes)
		}
	}
	if result.TotalVoters != 13 {
		t.Errorf("expected 13 total voters, got %d", result.TotalVoters)
	}
}

func TestComputeTally_AllZeroVotesIsFullTie(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)

	result, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}
	if result.Outcome != models.OutcomeTie {
		t.Errorf("expected tie at zero votes, got %s", result.Outcome)
	}
	if len(result.Tied) != 2 {
		t.Errorf("expected both candidates in the zero-vote tie, got %d", len(result.Tied))
	}
}

func TestComputeTally_SingleCandidateZeroVotesWins(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	// Degenerate but valid: one candidate, no votes
	mustAddCandidates(t, e, "Alice")

	result, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}
	if result.Outcome != models.OutcomeWinner {
		t.Errorf("expected winner outcome, got %s", result.Outcome)
	}
	if result.Winner == nil || result.Winner.Votes != 0 {
		t.Errorf("expected zero-vote winner, got %+v", result.Winner)
	}
}

func TestComputeTally_NoCandidates(t *testing.T) {
	e := setupEngine(t)

	result, err := e.Results.ComputeTally(context.Background())
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}
	if result.Outcome != models.OutcomeEmpty {
		t.Errorf("expected empty outcome with no candidates, got %s", result.Outcome)
	}
	if result.TotalVoters != 0 {
		t.Errorf("expected 0 total voters, got %d", result.TotalVoters)
	}
}

func TestComputeTally_Deterministic(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob", "Charlie")
	mustOpen(t, e)
	castVotes(t, e, map[int]int{candIDs[0]: 2, candIDs[1]: 2, candIDs[2]: 1})

	first, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("first ComputeTally failed: %v", err)
	}
	second, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("second ComputeTally failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical tallies without mutation:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	// Computing the tally mutated nothing
	ballots, _ := e.Ballots.List(ctx)
	if len(ballots) != 5 {
		t.Errorf("expected 5 ballots untouched, got %d", len(ballots))
	}
}

func TestComputeTally_CountsOrdering(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Zoe", "Alice", "Bob")
	mustOpen(t, e)
	// Zoe 2, Alice 1, Bob 2 -> Bob ties Zoe, name breaks the tie in the listing
	castVotes(t, e, map[int]int{candIDs[0]: 2, candIDs[1]: 1, candIDs[2]: 2})

	result, err := e.Results.ComputeTally(ctx)
	if err != nil {
		t.Fatalf("ComputeTally failed: %v", err)
	}

	names := make([]string, len(result.Counts))
	for i, cc := range result.Counts {
		names[i] = cc.Name
	}
	expected := []string{"Bob", "Zoe", "Alice"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected presentation order %v, got %v", expected, names)
	}
}

func TestLeaders(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob", "Charlie")
	mustOpen(t, e)
	castVotes(t, e, map[int]int{candIDs[1]: 2, candIDs[2]: 1})

	leaders, err := e.Results.Leaders(ctx)
	if err != nil {
		t.Fatalf("Leaders failed: %v", err)
	}
	if len(leaders) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(leaders))
	}
	if leaders[0].Name != "Bob" || leaders[0].Votes != 2 {
		t.Errorf("expected Bob leading with 2 votes, got %+v", leaders[0])
	}
	if leaders[2].Name != "Alice" || leaders[2].Votes != 0 {
		t.Errorf("expected Alice last with 0 votes, got %+v", leaders[2])
	}
}

func TestStats(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	candIDs := mustAddCandidates(t, e, "Alice", "Bob")
	mustOpen(t, e)
	castVotes(t, e, map[int]int{candIDs[0]: 1})

	stats, err := e.Results.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["candidates"] != 2 {
		t.Errorf("expected 2 candidates, got %v", stats["candidates"])
	}
	if stats["voters"] != 1 {
		t.Errorf("expected 1 voter, got %v", stats["voters"])
	}
	if stats["ballots"] != 1 {
		t.Errorf("expected 1 ballot, got %v", stats["ballots"])
	}
}
