package postgres

import (
	"strings"
	"testing"

	"github.com/onetouchfc/one-touch-loader/internal/domain/knockout"
)

func TestBuildUpsertTiesQueryKeepsStoredWinner(t *testing.T) {
	t.Parallel()

	tie := knockout.Tie{
		LeagueID:  2,
		SeasonID:  100,
		RoundName: "Quarter-finals",
		Team1ID:   10,
		Team2ID:   20,
		Leg1: &knockout.TieLeg{
			FixtureID:  1,
			HomeTeamID: 10,
			AwayTeamID: 20,
			HomeScore:  3,
			AwayScore:  0,
		},
		AggregateTeam1: 3,
		AggregateTeam2: 0,
	}

	query, args, err := buildUpsertTiesQuery([]knockout.Tie{tie})
	if err != nil {
		t.Fatalf("buildUpsertTiesQuery: %v", err)
	}

	if !strings.Contains(query, "winner_team_id = COALESCE(knockout_ties.winner_team_id, EXCLUDED.winner_team_id)") {
		t.Fatalf("conflict clause must keep a stored winner, got:\n%s", query)
	}
	if !strings.Contains(query, "leg1_fixture_id = EXCLUDED.leg1_fixture_id") {
		t.Fatalf("conflict clause must refresh leg details, got:\n%s", query)
	}
	if !strings.Contains(query, "aggregate_team1 = EXCLUDED.aggregate_team1") {
		t.Fatalf("conflict clause must refresh aggregates, got:\n%s", query)
	}

	if len(args) != 18 {
		t.Fatalf("expected 18 args for one tie, got %d", len(args))
	}
	// Second-leg columns of a single-match tie bind as NULLs.
	for i := 10; i < 15; i++ {
		if args[i] != nil {
			t.Fatalf("arg %d = %v, want nil for missing second leg", i, args[i])
		}
	}
	if args[5] != int64(1) || args[9] != 0 {
		t.Fatalf("first-leg args misplaced: %v", args[5:10])
	}
}

func TestBuildUpsertTiesQueryMultiRow(t *testing.T) {
	t.Parallel()

	ties := []knockout.Tie{
		{LeagueID: 2, SeasonID: 100, RoundName: "Semi-finals", Team1ID: 10, Team2ID: 20},
		{LeagueID: 2, SeasonID: 100, RoundName: "Semi-finals", Team1ID: 30, Team2ID: 40},
	}
	query, args, err := buildUpsertTiesQuery(ties)
	if err != nil {
		t.Fatalf("buildUpsertTiesQuery: %v", err)
	}
	if len(args) != 36 {
		t.Fatalf("expected 36 args for two ties, got %d", len(args))
	}
	if !strings.Contains(query, "$19") || strings.Contains(query, "$37") {
		t.Fatalf("placeholder numbering off for two rows:\n%s", query)
	}
}
