package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) UpsertBatch(ctx context.Context, fixtures []fixture.Fixture) (int, error) {
	total := 0
	for start := 0; start < len(fixtures); start += upsertChunkSize {
		chunk := fixtures[start:chunkEnd(start, len(fixtures))]

		builder := qb.InsertInto("fixtures").
			Columns(
				"fixture_id", "season_id", "league_id",
				"home_team_id", "away_team_id",
				"competition_type", "round_name",
				"stage_id", "stage_type_id", "group_id", "leg_number",
				"status", "starting_at",
				"home_score", "away_score",
				"home_penalty_score", "away_penalty_score",
			)
		for _, item := range chunk {
			builder.Values(
				item.ID, item.SeasonID, item.LeagueID,
				item.HomeTeamID, item.AwayTeamID,
				string(item.Competition), item.RoundName,
				item.StageID, item.StageTypeID, item.GroupID, item.LegNumber,
				string(item.Status), item.StartingAt,
				item.HomeScore, item.AwayScore,
				item.HomePenaltyScore, item.AwayPenaltyScore,
			)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (fixture_id) DO UPDATE SET
    season_id = EXCLUDED.season_id,
    league_id = EXCLUDED.league_id,
    home_team_id = COALESCE(EXCLUDED.home_team_id, fixtures.home_team_id),
    away_team_id = COALESCE(EXCLUDED.away_team_id, fixtures.away_team_id),
    competition_type = EXCLUDED.competition_type,
    round_name = EXCLUDED.round_name,
    stage_id = COALESCE(EXCLUDED.stage_id, fixtures.stage_id),
    stage_type_id = COALESCE(EXCLUDED.stage_type_id, fixtures.stage_type_id),
    group_id = COALESCE(EXCLUDED.group_id, fixtures.group_id),
    leg_number = COALESCE(EXCLUDED.leg_number, fixtures.leg_number),
    status = EXCLUDED.status,
    starting_at = COALESCE(EXCLUDED.starting_at, fixtures.starting_at),
    home_score = COALESCE(EXCLUDED.home_score, fixtures.home_score),
    away_score = COALESCE(EXCLUDED.away_score, fixtures.away_score),
    home_penalty_score = COALESCE(EXCLUDED.home_penalty_score, fixtures.home_penalty_score),
    away_penalty_score = COALESCE(EXCLUDED.away_penalty_score, fixtures.away_penalty_score),
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert fixtures query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert fixtures chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}

func (r *FixtureRepository) ListCompleted(ctx context.Context, leagueID, seasonID int64) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season_id", seasonID),
			qb.Eq("status", string(fixture.StatusPast)),
			qb.Expr("home_score IS NOT NULL"),
			qb.Expr("away_score IS NOT NULL"),
		).
		OrderBy("starting_at", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select completed fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select completed fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:               row.ID,
			SeasonID:         row.SeasonID,
			LeagueID:         row.LeagueID,
			HomeTeamID:       nullInt64ToPtr(row.HomeTeamID),
			AwayTeamID:       nullInt64ToPtr(row.AwayTeamID),
			Competition:      league.CompetitionType(row.Competition),
			RoundName:        row.RoundName,
			StageID:          nullInt64ToPtr(row.StageID),
			StageTypeID:      nullInt64ToPtr(row.StageTypeID),
			GroupID:          nullInt64ToPtr(row.GroupID),
			LegNumber:        nullInt64ToIntPtr(row.LegNumber),
			Status:           fixture.Status(row.Status),
			StartingAt:       nullTimeToPtr(row.StartingAt),
			HomeScore:        nullInt64ToIntPtr(row.HomeScore),
			AwayScore:        nullInt64ToIntPtr(row.AwayScore),
			HomePenaltyScore: nullInt64ToIntPtr(row.HomePenaltyScore),
			AwayPenaltyScore: nullInt64ToIntPtr(row.AwayPenaltyScore),
		})
	}

	return out, nil
}
