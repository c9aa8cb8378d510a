package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/season"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) UpsertBatch(ctx context.Context, seasons []season.Season) (int, error) {
	total := 0
	for start := 0; start < len(seasons); start += upsertChunkSize {
		chunk := seasons[start:chunkEnd(start, len(seasons))]

		builder := qb.InsertInto("seasons").
			Columns("season_id", "league_id", "name", "is_current", "starting_at", "ending_at")
		for _, item := range chunk {
			builder.Values(
				item.ID,
				item.LeagueID,
				item.Name,
				item.IsCurrent,
				item.StartingAt,
				item.EndingAt,
			)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (season_id) DO UPDATE SET
    league_id = EXCLUDED.league_id,
    name = EXCLUDED.name,
    is_current = EXCLUDED.is_current,
    starting_at = COALESCE(EXCLUDED.starting_at, seasons.starting_at),
    ending_at = COALESCE(EXCLUDED.ending_at, seasons.ending_at),
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert seasons query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert seasons chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}

func (r *SeasonRepository) BackfillDates(ctx context.Context, seasonID int64, startingAt, endingAt time.Time) error {
	query, args, err := qb.Update("seasons").
		SetExpr("starting_at", "COALESCE(starting_at, ?)", startingAt).
		SetExpr("ending_at", "COALESCE(ending_at, ?)", endingAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build backfill season dates query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("backfill season dates season_id=%d: %w", seasonID, err)
	}
	return nil
}
