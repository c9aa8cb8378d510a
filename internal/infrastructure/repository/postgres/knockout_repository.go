package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/knockout"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type KnockoutRepository struct {
	db *sqlx.DB
}

func NewKnockoutRepository(db *sqlx.DB) *KnockoutRepository {
	return &KnockoutRepository{db: db}
}

// UpsertBatch writes ties without ever un-deciding one: the COALESCE in the
// conflict clause keeps any winner that is already stored. Leg details and
// aggregates always refresh to the incoming values.
func (r *KnockoutRepository) UpsertBatch(ctx context.Context, ties []knockout.Tie) (int, error) {
	total := 0
	for start := 0; start < len(ties); start += upsertChunkSize {
		chunk := ties[start:chunkEnd(start, len(ties))]

		query, args, err := buildUpsertTiesQuery(chunk)
		if err != nil {
			return total, fmt.Errorf("build upsert knockout ties query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert knockout ties chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}

func buildUpsertTiesQuery(ties []knockout.Tie) (string, []any, error) {
	builder := qb.InsertInto("knockout_ties").
		Columns("league_id", "season_id", "round_name", "team1_id", "team2_id",
			"leg1_fixture_id", "leg1_home_team_id", "leg1_away_team_id", "leg1_home_score", "leg1_away_score",
			"leg2_fixture_id", "leg2_home_team_id", "leg2_away_team_id", "leg2_home_score", "leg2_away_score",
			"aggregate_team1", "aggregate_team2", "winner_team_id")
	for _, item := range ties {
		values := []any{item.LeagueID, item.SeasonID, item.RoundName, item.Team1ID, item.Team2ID}
		values = append(values, tieLegValues(item.Leg1)...)
		values = append(values, tieLegValues(item.Leg2)...)
		values = append(values, item.AggregateTeam1, item.AggregateTeam2, item.WinnerTeamID)
		builder.Values(values...)
	}
	return builder.Suffix(`ON CONFLICT (league_id, season_id, round_name, team1_id, team2_id) DO UPDATE SET
    leg1_fixture_id = EXCLUDED.leg1_fixture_id,
    leg1_home_team_id = EXCLUDED.leg1_home_team_id,
    leg1_away_team_id = EXCLUDED.leg1_away_team_id,
    leg1_home_score = EXCLUDED.leg1_home_score,
    leg1_away_score = EXCLUDED.leg1_away_score,
    leg2_fixture_id = EXCLUDED.leg2_fixture_id,
    leg2_home_team_id = EXCLUDED.leg2_home_team_id,
    leg2_away_team_id = EXCLUDED.leg2_away_team_id,
    leg2_home_score = EXCLUDED.leg2_home_score,
    leg2_away_score = EXCLUDED.leg2_away_score,
    aggregate_team1 = EXCLUDED.aggregate_team1,
    aggregate_team2 = EXCLUDED.aggregate_team2,
    winner_team_id = COALESCE(knockout_ties.winner_team_id, EXCLUDED.winner_team_id),
    updated_at = NOW()`).ToSQL()
}

func tieLegValues(leg *knockout.TieLeg) []any {
	if leg == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{leg.FixtureID, leg.HomeTeamID, leg.AwayTeamID, leg.HomeScore, leg.AwayScore}
}
