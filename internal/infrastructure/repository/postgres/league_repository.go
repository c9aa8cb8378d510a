package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) UpsertBatch(ctx context.Context, leagues []league.League) (int, error) {
	total := 0
	for start := 0; start < len(leagues); start += upsertChunkSize {
		chunk := leagues[start:chunkEnd(start, len(leagues))]

		builder := qb.InsertInto("leagues").
			Columns("league_id", "name", "image_path", "sub_type", "competition_type")
		for _, item := range chunk {
			builder.Values(
				item.ID,
				item.Name,
				nullableString(item.ImagePath),
				nullableString(item.SubType),
				string(item.Competition),
			)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (league_id) DO UPDATE SET
    name = EXCLUDED.name,
    image_path = COALESCE(EXCLUDED.image_path, leagues.image_path),
    sub_type = COALESCE(EXCLUDED.sub_type, leagues.sub_type),
    competition_type = EXCLUDED.competition_type,
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert leagues query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert leagues chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}
