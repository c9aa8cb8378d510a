package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/pointspace"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type PointsPaceRepository struct {
	db *sqlx.DB
}

func NewPointsPaceRepository(db *sqlx.DB) *PointsPaceRepository {
	return &PointsPaceRepository{db: db}
}

// UpsertBatch refreshes pace entries. The cumulative total is monotonic:
// on conflict the larger of the stored and incoming values wins.
func (r *PointsPaceRepository) UpsertBatch(ctx context.Context, entries []pointspace.Entry) (int, error) {
	total := 0
	for start := 0; start < len(entries); start += upsertChunkSize {
		chunk := entries[start:chunkEnd(start, len(entries))]

		query, args, err := buildUpsertPaceQuery(chunk)
		if err != nil {
			return total, fmt.Errorf("build upsert points pace query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert points pace chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}

func buildUpsertPaceQuery(entries []pointspace.Entry) (string, []any, error) {
	builder := qb.InsertInto("points_pace").
		Columns("league_id", "season_id", "team_id", "round_no", "match_date", "round_points", "cumulative_points")
	for _, item := range entries {
		builder.Values(
			item.LeagueID, item.SeasonID, item.TeamID, item.RoundNo,
			item.MatchDate, item.RoundPoints, item.CumulativePoints,
		)
	}
	return builder.Suffix(`ON CONFLICT (league_id, season_id, team_id, round_no) DO UPDATE SET
    match_date = EXCLUDED.match_date,
    round_points = EXCLUDED.round_points,
    cumulative_points = GREATEST(points_pace.cumulative_points, EXCLUDED.cumulative_points),
    updated_at = NOW()`).ToSQL()
}
